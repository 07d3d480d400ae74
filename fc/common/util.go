package common

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// LoadYaml loads a Yaml file into out
func LoadYaml(filename string, out interface{}) error {
	yamlData, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("yaml os.ReadFile %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(yamlData, out); err != nil {
		return fmt.Errorf("yaml.Unmarshal %s: %w", filename, err)
	}
	return nil
}

// YamlObjectAsString outputs contents of yaml object with a label
func YamlObjectAsString(in interface{}, label string) string {
	d, err := yaml.Marshal(in)
	if err != nil {
		log.Fatalf("error: yaml.Marshal %v", err)
	}
	return fmt.Sprintf("=== %s ===\n%s\n\n", label, string(d))
}

// TitleCaser returns text in title case. Casers are stateful, so each call
// gets its own.
func TitleCaser(text string) string {
	return cases.Title(language.AmericanEnglish).String(text)
}

// UpperCaser returns text in upper case.
func UpperCaser(text string) string {
	return cases.Upper(language.AmericanEnglish).String(text)
}

// BuiltinFont is the font name used when no font file is configured.
const BuiltinFont = "goregular"

var fontCache sync.Map

// LoadFont parses a TrueType font and keeps it for later calls. Parsed fonts
// are safe to share between goroutines; faces made from them are not.
func LoadFont(dir string, name string) (*truetype.Font, error) {
	if name == "" {
		name = BuiltinFont
	}
	key := filepath.Join(dir, name)
	if v, found := fontCache.Load(key); found {
		return v.(*truetype.Font), nil
	}
	var fontBytes []byte
	if name == BuiltinFont {
		fontBytes = goregular.TTF
	} else {
		var err error
		fontBytes, err = os.ReadFile(key)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
	}
	ttf, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	fontCache.Store(key, ttf)
	return ttf, nil
}

// FontFaceCache hands out faces of one font by size. A cache must stay
// within one goroutine since font.Face is not thread safe.
type FontFaceCache struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

// NewFontFaceCache returns an empty face cache for ttf.
func NewFontFaceCache(ttf *truetype.Font) *FontFaceCache {
	return &FontFaceCache{font: ttf, faces: make(map[float64]font.Face)}
}

// Face returns the face for size, creating it on first use.
func (cache *FontFaceCache) Face(size float64) font.Face {
	if fontFace, found := cache.faces[size]; found {
		return fontFace
	}
	fontFace := truetype.NewFace(cache.font, &truetype.Options{
		Size:    size,
		Hinting: font.HintingNone,
	})
	cache.faces[size] = fontFace
	return fontFace
}

// Close releases every face in the cache.
func (cache *FontFaceCache) Close() {
	for size, face := range cache.faces {
		face.Close()
		delete(cache.faces, size)
	}
}
