package common

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

// Config contains all the configuration data for the app
type Config struct {
	AppName     string `yaml:"AppName" toml:"AppName"`
	Version     string `yaml:"Version" toml:"Version"`
	DebugOutput bool   `yaml:"DebugOutput" toml:"DebugOutput"`

	FontsDir        string  `yaml:"FontsDir" toml:"FontsDir"`
	Font            string  `yaml:"Font" toml:"Font"` // Empty uses the built in Go font
	DefaultFontSize float64 `yaml:"DefaultFontSize" toml:"DefaultFontSize"`
	Scale           float64 `yaml:"Scale" toml:"Scale"`
	MaxPasses       int     `yaml:"MaxPasses" toml:"MaxPasses"`
	LineSpacing     float64 `yaml:"LineSpacing" toml:"LineSpacing"`
	WidthHint       bool    `yaml:"WidthHint" toml:"WidthHint"`
	Inset           Point2d `yaml:"Inset" toml:"Inset"`

	ImagesDir      string `yaml:"ImagesDir" toml:"ImagesDir"`
	JpgQuality     int    `yaml:"JpgQuality" toml:"JpgQuality"`
	MaxSheetPixels int64  `yaml:"MaxSheetPixels" toml:"MaxSheetPixels"` // Caps blank sheet allocations

	TextColour       string   `yaml:"TextColour" toml:"TextColour"`
	BackgroundColour string   `yaml:"BackgroundColour" toml:"BackgroundColour"`
	AlternateColours []string `yaml:"AlternateColours" toml:"AlternateColours"`
}

// Point2d contains x and y
type Point2d struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// Dimensions2d contains width and height
type Dimensions2d struct {
	W int `yaml:"w" toml:"w"` // Width
	H int `yaml:"h" toml:"h"` // Height
}

// Defaults for values a config file may leave out.
const (
	DefaultFontSize    = 16
	DefaultMaxPasses   = 40
	DefaultLineSpacing = 1.2
	DefaultJpgQuality  = 90

	DefaultMaxSheetPixels = 5000 * 5000
)

// applyDefaults fills zero values.
func (c *Config) applyDefaults() {
	if c.DefaultFontSize == 0 {
		c.DefaultFontSize = DefaultFontSize
	}
	if c.Scale == 0 {
		c.Scale = 1
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = DefaultMaxPasses
	}
	if c.LineSpacing == 0 {
		c.LineSpacing = DefaultLineSpacing
	}
	if c.JpgQuality == 0 {
		c.JpgQuality = DefaultJpgQuality
	}
	if c.MaxSheetPixels == 0 {
		c.MaxSheetPixels = DefaultMaxSheetPixels
	}
	if c.TextColour == "" {
		c.TextColour = "#000000"
	}
	if c.BackgroundColour == "" {
		c.BackgroundColour = "#FFFFFF"
	}
}

// LoadConfig reads the app config. Files ending in .toml are decoded as TOML,
// everything else as YAML.
func LoadConfig(filename string) (*Config, error) {
	cfg := new(Config)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		if _, err := toml.DecodeFile(filename, cfg); err != nil {
			return nil, fmt.Errorf("toml.DecodeFile %s: %w", filename, err)
		}
	default:
		if err := LoadYaml(filename, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// WatchConfig calls onChange with the reloaded config every time filename is
// written. Reload failures are logged and the previous config stays in use.
// The returned function stops watching.
func WatchConfig(filename string, log *Logger, onChange func(*Config)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	// Watch the directory so editors that replace the file are seen too.
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filename, err)
	}
	target := filepath.Clean(filename)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target ||
					!(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}
				cfg, err := LoadConfig(filename)
				if err != nil {
					log.Err("reload %s: %v", filename, err)
					continue
				}
				log.Msg("Reloaded %s", filename)
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Err("watching %s: %v", filename, err)
			}
		}
	}()
	return watcher.Close, nil
}
