package fc

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"github.com/ankurkotwal/fitcard/fc/common"
	"github.com/ankurkotwal/fitcard/fc/tomlsheet"
	"github.com/ankurkotwal/fitcard/fc/yamlsheet"
)

var config atomic.Pointer[common.Config]

//go:embed templates/*.html
var templatesFS embed.FS

// SourceInfo is the info needed to fit into FitCard
// Returns:
//   - Source label / name
//   - User friendly command line description
//   - Func handler for incoming request
type SourceInfo func() (string, string, common.FuncRequestHandler)

// SourcesInfo lists the supported sheet formats
var SourcesInfo []SourceInfo = []SourceInfo{yamlsheet.GetSourceInfo, tomlsheet.GetSourceInfo}

// FitRequest asks for a single label to be fitted.
type FitRequest struct {
	Label common.Label `json:"label" jsonschema:"required"`
	// Scale overrides the configured ambient scale for scaled bounds.
	Scale float64 `json:"scale,omitempty" jsonschema:"minimum=0"`
}

// FitResponse is the reply to a FitRequest.
type FitResponse struct {
	Result *common.FitResult  `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
	Logs   []*common.LogEntry `json:"logs"`
}

// GetServer loads the config and sets up the routes.
func GetServer(debugMode bool, configPath string, sourceArgs SourceToInputFiles) (*gin.Engine, string, error) {
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	config.Store(cfg)

	if !debugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	if debugMode {
		pprof.Register(router)
	}
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	type source struct{ Label, Desc string }
	var sources []source
	for _, getSourceInfo := range SourcesInfo {
		label, desc, _ := getSourceInfo()
		sources = append(sources, source{label, desc})
	}

	// Index page
	router.GET("/", func(c *gin.Context) {
		cfg := config.Load()
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Title":   cfg.AppName,
			"Version": cfg.Version,
			"Sources": sources,
		})
	})
	router.POST("/api/fit", handleFit)
	router.GET("/api/schema", func(c *gin.Context) {
		c.JSON(http.StatusOK, jsonschema.Reflect(&FitRequest{}))
	})

	for _, getSourceInfo := range SourcesInfo {
		label, _, handleRequest := getSourceInfo()
		router.POST(fmt.Sprintf("/api/%s", label), func(c *gin.Context) {
			log := newRequestLog()
			// Use the posted form data
			sendResponse(loadFormFiles(c, log), handleRequest, c, log)
		})
		if debugMode {
			router.GET(fmt.Sprintf("/test/%s", label), func(c *gin.Context) {
				log := newRequestLog()
				var files []string
				if f, found := sourceArgs[label]; found && f != nil {
					files = *f
				}
				// Use local files (specified on the command line)
				sendResponse(loadLocalFiles(files, log), handleRequest, c, log)
			})
		}
	}

	// Run on port 8080 unless PORT varilable specified
	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8080"
	}
	return router, fmt.Sprintf(":%s", port), nil
}

// WatchConfig reloads the server config whenever configPath changes.
func WatchConfig(configPath string) (func() error, error) {
	return common.WatchConfig(configPath, common.NewLog(), func(cfg *common.Config) {
		config.Store(cfg)
	})
}

func newRequestLog() *common.Logger {
	log := common.NewLog()
	log.Debug = config.Load().DebugOutput
	return log
}

func handleFit(c *gin.Context) {
	log := newRequestLog()
	var req FitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FitResponse{Error: err.Error(), Logs: log.Snapshot()})
		return
	}
	if req.Scale < 0 {
		c.JSON(http.StatusBadRequest, FitResponse{
			Error: fmt.Sprintf("scale %v is negative", req.Scale), Logs: log.Snapshot()})
		return
	}
	cfg := config.Load()
	ttf, err := common.LoadFont(cfg.FontsDir, cfg.Font)
	if err != nil {
		log.Err("%v", err)
		c.JSON(http.StatusInternalServerError, FitResponse{Error: err.Error(), Logs: log.Snapshot()})
		return
	}
	faces := common.NewFontFaceCache(ttf)
	defer faces.Close()

	result, err := common.FitLabel(req.Label, faces, cfg, req.Scale, log)
	if err != nil {
		c.JSON(http.StatusBadRequest, FitResponse{Error: err.Error(), Logs: log.Snapshot()})
		return
	}
	c.JSON(http.StatusOK, FitResponse{Result: &result, Logs: log.Snapshot()})
}

func loadLocalFiles(files []string, log *common.Logger) [][]byte {
	var inputFiles [][]byte
	for _, filename := range files {
		file, err := os.ReadFile(filename)
		if err != nil {
			log.Err("Error reading file. %s", err)
		}
		inputFiles = append(inputFiles, file)
	}
	return inputFiles
}

func loadFormFiles(c *gin.Context, log *common.Logger) [][]byte {
	form, err := c.MultipartForm()
	if err != nil {
		log.Err("Error getting MultipartForm - %s", err)
		return make([][]byte, 0)
	}

	inputFiles := form.File["file"]
	files := make([][]byte, len(inputFiles))
	for idx, file := range inputFiles {
		multipart, err := file.Open()
		if err != nil {
			log.Err("Error opening multipart file %s - %s", file.Filename, err)
			continue
		}
		contents, err := io.ReadAll(multipart)
		multipart.Close()
		if err != nil {
			log.Err("Error reading multipart file %s - %s", file.Filename, err)
			continue
		}
		files[idx] = contents
	}
	return files
}

func sendResponse(loadedFiles [][]byte, handler common.FuncRequestHandler, c *gin.Context,
	log *common.Logger) {
	cfg := config.Load()

	sheets := handler(loadedFiles, cfg, log)
	generatedFiles, numBytes := common.GenerateSheets(sheets, cfg, log)
	log.Dbg("Generated %d sheets, %d bytes", len(sheets), numBytes)

	images := make([]string, 0, len(generatedFiles))
	for _, file := range generatedFiles {
		if file.Len() == 0 {
			continue
		}
		images = append(images, base64.StdEncoding.EncodeToString(file.Bytes()))
	}

	var tpl bytes.Buffer
	err := sheetsTemplate.ExecuteTemplate(&tpl, "sheets.html", gin.H{
		"Title":  cfg.AppName,
		"Images": images,
		"Logs":   log.Snapshot(),
	})
	if err != nil {
		s := fmt.Sprintf("Error executing sheets template - %s", err)
		log.Err("%s", s)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(s))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", tpl.Bytes())
}

var sheetsTemplate = template.Must(template.ParseFS(templatesFS, "templates/sheets.html"))

// SourceToInputFiles are the per-source arguments specified on the command line
type SourceToInputFiles map[string]*Filenames

// Filenames are used for storing a list of CLI values
type Filenames []string

func (i *Filenames) String() string {
	if i == nil {
		return ""
	}
	return strings.Join(*i, ",")
}

// Set adds to the ArrayFlag
func (i *Filenames) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// GetFilesFromDir returns a list of file names from a directory
func GetFilesFromDir(path string) (*Filenames, error) {
	files, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	testFiles := make(Filenames, 0, len(files))
	for _, f := range files {
		if !f.IsDir() {
			testFiles = append(testFiles, filepath.Join(path, f.Name()))
		}
	}
	return &testFiles, nil
}
