package common

import (
	"strings"
	"testing"

	"github.com/ankurkotwal/fitcard/fc/fit"
)

func newTestFaces(t *testing.T) *FontFaceCache {
	t.Helper()
	ttf, err := LoadFont("", "")
	if err != nil {
		t.Fatalf("LoadFont failed: %v", err)
	}
	faces := NewFontFaceCache(ttf)
	t.Cleanup(faces.Close)
	return faces
}

func TestMeasure(t *testing.T) {
	faces := newTestFaces(t)

	tests := []struct {
		name         string
		text         string
		size         float64
		w, h         float64
		maxLines     int
		wrap         bool
		wantOverflow bool
		wantLines    int
	}{
		{"fits", "Hi", 12, 200, 50, 0, false, false, 1},
		{"too wide", "Hello there", 100, 50, 200, 0, false, true, 1},
		{"too tall", "Hi", 40, 500, 10, 0, false, true, 1},
		{"newlines", "one\ntwo\nthree", 10, 200, 200, 0, false, false, 3},
		{"newlines over max lines", "one\ntwo\nthree", 10, 200, 200, 2, false, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Measurer{Faces: faces, BoxWidth: tt.w, BoxHeight: tt.h,
				MaxLines: tt.maxLines, Wrap: tt.wrap}
			meas := m.Measure(tt.text, fit.Size(tt.size))
			if meas.Outcome.Overflowed != tt.wantOverflow {
				t.Errorf("Overflowed = %v, want %v (width %v height %v)",
					meas.Outcome.Overflowed, tt.wantOverflow, meas.Width, meas.Height)
			}
			if len(meas.Lines) != tt.wantLines {
				t.Errorf("got %d lines, want %d", len(meas.Lines), tt.wantLines)
			}
			if meas.Outcome.BoxWidth != tt.w {
				t.Errorf("BoxWidth = %v, want %v", meas.Outcome.BoxWidth, tt.w)
			}
		})
	}
}

func TestMeasureWrap(t *testing.T) {
	faces := newTestFaces(t)
	text := "the quick brown fox jumps over the lazy dog"
	m := Measurer{Faces: faces, BoxWidth: 120, BoxHeight: 500, Wrap: true}

	meas := m.Measure(text, 14)
	if len(meas.Lines) < 2 {
		t.Fatalf("expected text to wrap, got %q", meas.Lines)
	}
	if meas.Outcome.Overflowed {
		t.Errorf("wrapped text overflowed: width %v", meas.Width)
	}
	if got := strings.Join(meas.Lines, " "); got != text {
		t.Errorf("wrapping lost words: %q", got)
	}

	m.MaxLines = 1
	if meas := m.Measure(text, 14); !meas.Outcome.Overflowed {
		t.Error("expected overflow with MaxLines 1")
	}
}

func TestMeasureWidthHint(t *testing.T) {
	faces := newTestFaces(t)
	m := Measurer{Faces: faces, BoxWidth: 300, BoxHeight: 100, WidthHint: true}

	meas := m.Measure("Hi", 20)
	if meas.Outcome.IntrinsicWidth <= 0 || meas.Outcome.IntrinsicWidth > 300 {
		t.Errorf("IntrinsicWidth = %v, want within the box", meas.Outcome.IntrinsicWidth)
	}

	wide := m.Measure("a label far too wide for the box", 40)
	if !wide.Outcome.Overflowed || wide.Outcome.IntrinsicWidth <= wide.Outcome.BoxWidth {
		t.Errorf("wide text: %+v", wide.Outcome)
	}

	m.BoxHeight = 5
	if tall := m.Measure("Hi", 20); tall.Outcome.IntrinsicWidth != 0 {
		t.Errorf("height overflow must not carry a width hint, got %v", tall.Outcome.IntrinsicWidth)
	}

	m.WidthHint = false
	m.BoxHeight = 100
	if meas := m.Measure("Hi", 20); meas.Outcome.IntrinsicWidth != 0 {
		t.Errorf("hint reported while disabled")
	}
}
