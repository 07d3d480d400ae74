package fc

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankurkotwal/fitcard/fc/common"
	"github.com/ankurkotwal/fitcard/fc/fit"
)

const testSheet = `
Name: Stick
Size: { w: 300, h: 100 }
Labels:
  - Text: Fire guns
    Box: { x: 10, y: 10, w: 120, h: 30 }
    FontSize: 18
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestServer(t *testing.T, debugMode bool, args SourceToInputFiles) *gin.Engine {
	t.Helper()
	path := writeConfig(t, "AppName: \"TestApp\"\nVersion: \"1.0\"\n")
	router, _, err := GetServer(debugMode, path, args)
	if err != nil {
		t.Fatalf("GetServer failed: %v", err)
	}
	return router
}

func serve(router *gin.Engine, method, url string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = new(bytes.Buffer)
	}
	req, _ := http.NewRequest(method, url, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFilenames(t *testing.T) {
	var f Filenames
	if f.String() != "" {
		t.Error("String() should be empty")
	}
	f.Set("a.yaml")
	f.Set("b.yaml")
	if len(f) != 2 || f[1] != "b.yaml" {
		t.Error("Set failed")
	}
	if f.String() != "a.yaml,b.yaml" {
		t.Errorf("String() = %q", f.String())
	}
}

func TestGetFilesFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "file1"), []byte("c1"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "file2"), []byte("c2"), 0644)
	os.Mkdir(filepath.Join(tmpDir, "subdir"), 0755)

	files, err := GetFilesFromDir(tmpDir)
	if err != nil {
		t.Fatalf("GetFilesFromDir failed: %v", err)
	}
	if len(*files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(*files))
	}
}

func TestGetFilesFromDir_Error(t *testing.T) {
	_, err := GetFilesFromDir("/non/existent/path")
	if err == nil {
		t.Error("Expected error for non-existent path")
	}
}

func TestLoadLocalFiles(t *testing.T) {
	tmpDir := t.TempDir()
	p1 := filepath.Join(tmpDir, "f1")
	os.WriteFile(p1, []byte("content"), 0644)

	log := common.NewLog()
	files := loadLocalFiles([]string{p1, "nonexistent"}, log)

	if len(files) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(files))
	}
	if string(files[0]) != "content" {
		t.Error("Wrong content")
	}
	if files[1] != nil {
		t.Error("Expected nil/empty for error file")
	}
	if !log.HasErrors() {
		t.Error("Expected the missing file to be logged")
	}
}

func TestGetServer(t *testing.T) {
	router := newTestServer(t, true, nil)
	if router == nil {
		t.Fatal("Router is nil")
	}

	t.Setenv("PORT", "9090")
	_, port, err := GetServer(false, writeConfig(t, "AppName: x\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if port != ":9090" {
		t.Errorf("Expected port :9090, got %s", port)
	}
}

func TestGetServer_BadConfig(t *testing.T) {
	if _, _, err := GetServer(false, "missing/config.yaml", nil); err == nil {
		t.Error("Expected error for missing config")
	}
}

func TestIndex(t *testing.T) {
	router := newTestServer(t, false, nil)
	w := serve(router, "GET", "/", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / failed: %d", w.Code)
	}
	for _, want := range []string{"TestApp", "/api/yaml", "/api/toml"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestFitEndpoint(t *testing.T) {
	router := newTestServer(t, false, nil)

	body := bytes.NewBufferString(`{"label":{"text":"Hi","maxFontSize":30,"box":{"w":300,"h":200}}}`)
	w := serve(router, "POST", "/api/fit", body, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/fit failed: %d %s", w.Code, w.Body.String())
	}
	var resp FitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result == nil || resp.Result.FontSize != 30 || !resp.Result.Converged {
		t.Fatalf("Unexpected result %+v", resp.Result)
	}
	if resp.Result.Passes[0].Reason != fit.Grew {
		t.Errorf("first pass reason %v", resp.Result.Passes[0].Reason)
	}
}

func TestFitEndpoint_Errors(t *testing.T) {
	router := newTestServer(t, false, nil)
	for _, body := range []string{
		`{"label":`,
		`{"label":{"text":"x","minFontSize":20,"maxFontSize":10,"box":{"w":10,"h":10}}}`,
		`{"label":{"text":"x","box":{"w":0,"h":10}}}`,
		`{"label":{"text":"x","box":{"w":10,"h":10}},"scale":-1}`,
	} {
		w := serve(router, "POST", "/api/fit", bytes.NewBufferString(body), "application/json")
		if w.Code != http.StatusBadRequest {
			t.Errorf("POST %s: got %d, want 400", body, w.Code)
		}
		var resp FitResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error == "" {
			t.Errorf("POST %s: expected an error message, got %s", body, w.Body.String())
		}
	}
}

func TestSchemaEndpoint(t *testing.T) {
	router := newTestServer(t, false, nil)
	w := serve(router, "GET", "/api/schema", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/schema failed: %d", w.Code)
	}
	for _, want := range []string{"scaleUpUntil", "minFontSize", "maxLines"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("schema missing %q", want)
		}
	}
}

func TestSheetUpload(t *testing.T) {
	router := newTestServer(t, false, nil)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "stick.yaml")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(testSheet))
	writer.Close()

	w := serve(router, "POST", "/api/yaml", body, writer.FormDataContentType())
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/yaml failed: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "data:image/jpg;base64,") {
		t.Error("Expected an embedded image")
	}
}

func TestDebugEndpoints(t *testing.T) {
	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "stick.yaml")
	os.WriteFile(inputPath, []byte(testSheet), 0644)
	yamlFiles := make(Filenames, 0)
	yamlFiles.Set(inputPath)

	router := newTestServer(t, true, SourceToInputFiles{"yaml": &yamlFiles})
	w := serve(router, "GET", "/test/yaml", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /test/yaml failed: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "data:image/jpg;base64,") {
		t.Error("Expected an embedded image")
	}
	// No files given for toml, still a page with no images
	if w := serve(router, "GET", "/test/toml", nil, ""); w.Code != http.StatusOK {
		t.Errorf("GET /test/toml failed: %d", w.Code)
	}

	router = newTestServer(t, false, nil)
	if w := serve(router, "GET", "/test/yaml", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("test endpoint registered outside debug mode: %d", w.Code)
	}
}

func TestLoadFormFilesErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// perform "POST" but without multipart
	req, _ := http.NewRequest("POST", "/api/test", nil) // Not multipart
	c.Request = req

	log := common.NewLog()
	files := loadFormFiles(c, log)

	if len(files) != 0 {
		t.Error("Expected 0 files for non-multipart request")
	}
}

func TestWatchConfig(t *testing.T) {
	path := writeConfig(t, "AppName: before\n")
	if _, _, err := GetServer(false, path, nil); err != nil {
		t.Fatal(err)
	}
	stop, err := WatchConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	os.WriteFile(path, []byte("AppName: after\n"), 0644)
	deadline := time.Now().Add(5 * time.Second)
	for config.Load().AppName != "after" {
		if time.Now().After(deadline) {
			t.Fatal("config was not reloaded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
