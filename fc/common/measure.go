package common

import (
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ankurkotwal/fitcard/fc/fit"
)

// Measurement is a label laid out at one size.
type Measurement struct {
	Outcome fit.Outcome
	Lines   []string
	Width   float64
	Height  float64
}

// Measurer lays text out in a box and reports whether it fits. It owns a
// face cache and a scratch context, so it must stay on one goroutine.
type Measurer struct {
	Faces       *FontFaceCache
	BoxWidth    float64
	BoxHeight   float64
	MaxLines    int // Zero is unlimited
	Wrap        bool
	LineSpacing float64
	// WidthHint reports the intrinsic width with each outcome so the
	// controller can ignore overflows the width does not explain.
	WidthHint bool

	dc *gg.Context
}

// Measure lays text out at size.
func (m *Measurer) Measure(text string, size fit.Size) Measurement {
	face := m.Faces.Face(float64(size))
	if m.dc == nil {
		m.dc = gg.NewContext(1, 1)
	}
	m.dc.SetFontFace(face)

	var lines []string
	if m.Wrap {
		lines = m.dc.WordWrap(text, m.BoxWidth)
	} else {
		lines = strings.Split(text, "\n")
	}
	width := widestLine(face, lines)
	height := blockHeight(face, len(lines), m.lineSpacing())

	tooWide := width > m.BoxWidth
	tooTall := height > m.BoxHeight || (m.MaxLines > 0 && len(lines) > m.MaxLines)

	meas := Measurement{
		Outcome: fit.Outcome{
			Overflowed: tooWide || tooTall,
			BoxWidth:   m.BoxWidth,
		},
		Lines:  lines,
		Width:  width,
		Height: height,
	}
	// The width cannot vouch for text that is too tall for its box.
	if m.WidthHint && height <= m.BoxHeight {
		meas.Outcome.IntrinsicWidth = widestLine(face, strings.Split(text, "\n"))
	}
	return meas
}

func (m *Measurer) lineSpacing() float64 {
	if m.LineSpacing == 0 {
		return DefaultLineSpacing
	}
	return m.LineSpacing
}

func widestLine(face font.Face, lines []string) float64 {
	var widest fixed.Int26_6
	for _, line := range lines {
		if w := font.MeasureString(face, line); w > widest {
			widest = w
		}
	}
	return fixedToFloat(widest)
}

// blockHeight matches gg's MeasureMultilineString: spacing only goes between
// lines.
func blockHeight(face font.Face, lines int, lineSpacing float64) float64 {
	if lines == 0 {
		return 0
	}
	lineHeight := fixedToFloat(face.Metrics().Height)
	return float64(lines)*lineHeight*lineSpacing - (lineSpacing-1)*lineHeight
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
