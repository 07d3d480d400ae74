package common

import (
	"fmt"
	"strings"

	"github.com/ankurkotwal/fitcard/fc/fit"
)

// Box is a label's position and size on its sheet.
type Box struct {
	X float64 `yaml:"x" toml:"x" json:"x"`
	Y float64 `yaml:"y" toml:"y" json:"y"`
	W float64 `yaml:"w" toml:"w" json:"w" jsonschema:"exclusiveMinimum=0"`
	H float64 `yaml:"h" toml:"h" json:"h" jsonschema:"exclusiveMinimum=0"`
}

// Label is one piece of text that must fit its box.
type Label struct {
	Name string `yaml:"Name" toml:"Name" json:"name,omitempty"`
	Text string `yaml:"Text" toml:"Text" json:"text"`
	Box  Box    `yaml:"Box" toml:"Box" json:"box"`

	// Zero values are unspecified.
	FontSize       float64 `yaml:"FontSize" toml:"FontSize" json:"fontSize,omitempty" jsonschema:"minimum=0"`
	MinFontSize    float64 `yaml:"MinFontSize" toml:"MinFontSize" json:"minFontSize,omitempty" jsonschema:"minimum=0"`
	MaxFontSize    float64 `yaml:"MaxFontSize" toml:"MaxFontSize" json:"maxFontSize,omitempty" jsonschema:"minimum=0"`
	ScaleDownUntil float64 `yaml:"ScaleDownUntil" toml:"ScaleDownUntil" json:"scaleDownUntil,omitempty" jsonschema:"minimum=0"`
	ScaleUpUntil   float64 `yaml:"ScaleUpUntil" toml:"ScaleUpUntil" json:"scaleUpUntil,omitempty" jsonschema:"minimum=0"`
	Bounds         string  `yaml:"Bounds" toml:"Bounds" json:"bounds,omitempty" jsonschema:"enum=absolute,enum=scaled"`

	MaxLines  int    `yaml:"MaxLines" toml:"MaxLines" json:"maxLines,omitempty" jsonschema:"minimum=0"`
	Wrap      bool   `yaml:"Wrap" toml:"Wrap" json:"wrap,omitempty"`
	Transform string `yaml:"Transform" toml:"Transform" json:"transform,omitempty" jsonschema:"enum=title,enum=upper"`

	TextColour       string `yaml:"TextColour" toml:"TextColour" json:"textColour,omitempty"`
	BackgroundColour string `yaml:"BackgroundColour" toml:"BackgroundColour" json:"backgroundColour,omitempty"`
}

// FitConfig converts the label's options to the controller config.
func (l Label) FitConfig() (fit.Config, error) {
	bounds, err := fit.ParseBoundsMode(l.Bounds)
	if err != nil {
		return fit.Config{}, err
	}
	return fit.Config{
		FontSize:       fit.Size(l.FontSize),
		MinFontSize:    fit.Size(l.MinFontSize),
		MaxFontSize:    fit.Size(l.MaxFontSize),
		ScaleDownUntil: fit.Size(l.ScaleDownUntil),
		ScaleUpUntil:   fit.Size(l.ScaleUpUntil),
		Bounds:         bounds,
	}, nil
}

// DisplayText returns the text as it will be drawn.
func (l Label) DisplayText() string {
	switch strings.ToLower(l.Transform) {
	case "title":
		return TitleCaser(l.Text)
	case "upper":
		return UpperCaser(l.Text)
	}
	return l.Text
}

// Validate checks what the controller cannot: the box and the transform.
func (l Label) Validate() error {
	if l.Box.W <= 0 || l.Box.H <= 0 {
		return fmt.Errorf("label %q: box %vx%v must have a positive size", l.Name, l.Box.W, l.Box.H)
	}
	switch strings.ToLower(l.Transform) {
	case "", "title", "upper":
	default:
		return fmt.Errorf("label %q: unknown transform %q", l.Name, l.Transform)
	}
	if l.MaxLines < 0 {
		return fmt.Errorf("label %q: maxLines %d is negative", l.Name, l.MaxLines)
	}
	return nil
}

// Sheet is a canvas with labels placed on it.
type Sheet struct {
	Name             string       `yaml:"Name" toml:"Name"`
	Image            string       `yaml:"Image" toml:"Image"` // Background jpg in ImagesDir
	Size             Dimensions2d `yaml:"Size" toml:"Size"`   // Canvas size when there is no Image
	BackgroundColour string       `yaml:"BackgroundColour" toml:"BackgroundColour"`
	Labels           []Label      `yaml:"Labels" toml:"Labels"`
}

// Pass records one render/measure/decide cycle of a label.
type Pass struct {
	FontSize       float64    `json:"fontSize"`
	Overflowed     bool       `json:"overflowed"`
	IntrinsicWidth float64    `json:"intrinsicWidth,omitempty"`
	Next           float64    `json:"next"`
	Reason         fit.Reason `json:"reason"`
}

// FitResult is the outcome of fitting one label.
type FitResult struct {
	Name     string   `json:"name,omitempty"`
	FontSize float64  `json:"fontSize"`
	Lines    []string `json:"lines"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	// Overflowed is set when the text does not fit even at the final size.
	Overflowed bool `json:"overflowed"`
	// Converged is set when the controller reached a fixed point.
	Converged bool `json:"converged"`
	// Settled is set when the loop stopped oscillating and fell back to the
	// largest size that fitted.
	Settled bool   `json:"settled,omitempty"`
	Passes  []Pass `json:"passes"`
}

// FuncRequestHandler parses uploaded files into sheets.
type FuncRequestHandler func(files [][]byte, config *Config, log *Logger) []Sheet

// AssignColours gives labels without a background colour one of the
// alternate colours, in label order.
func AssignColours(sheet *Sheet, config *Config) {
	if len(config.AlternateColours) == 0 {
		return
	}
	i := 0
	for idx := range sheet.Labels {
		if sheet.Labels[idx].BackgroundColour != "" {
			continue
		}
		if i >= len(config.AlternateColours) {
			// Ran out of colours, repeat
			i = 0
		}
		sheet.Labels[idx].BackgroundColour = config.AlternateColours[i]
		i++
	}
}
