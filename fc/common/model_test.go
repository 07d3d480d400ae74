package common

import (
	"testing"

	"github.com/ankurkotwal/fitcard/fc/fit"
)

func TestLabelFitConfig(t *testing.T) {
	label := Label{FontSize: 20, MinFontSize: 8, MaxFontSize: 30, Bounds: "scaled",
		ScaleDownUntil: 4, ScaleUpUntil: 15}
	cfg, err := label.FitConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := fit.Config{FontSize: 20, MinFontSize: 8, MaxFontSize: 30,
		ScaleDownUntil: 4, ScaleUpUntil: 15, Bounds: fit.BoundsScaled}
	if cfg != want {
		t.Errorf("FitConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLabelValidate(t *testing.T) {
	tests := []struct {
		name    string
		label   Label
		wantErr bool
	}{
		{"ok", Label{Box: Box{W: 10, H: 10}}, false},
		{"title", Label{Box: Box{W: 10, H: 10}, Transform: "Title"}, false},
		{"no width", Label{Box: Box{H: 10}}, true},
		{"bad transform", Label{Box: Box{W: 10, H: 10}, Transform: "reverse"}, true},
		{"negative lines", Label{Box: Box{W: 10, H: 10}, MaxLines: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.label.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLabelDisplayText(t *testing.T) {
	for transform, want := range map[string]string{
		"":      "eject now",
		"title": "Eject Now",
		"upper": "EJECT NOW",
	} {
		l := Label{Text: "eject now", Transform: transform}
		if got := l.DisplayText(); got != want {
			t.Errorf("DisplayText(%q) = %q, want %q", transform, got, want)
		}
	}
}
