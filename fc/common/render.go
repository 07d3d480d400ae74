package common

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fogleman/gg"
	"github.com/pixiv/go-libjpeg/jpeg"

	"github.com/ankurkotwal/fitcard/fc/fit"
)

// FitLabel runs the render, measure and decide loop for one label until the
// controller stops changing the size or config.MaxPasses is used up. faces
// must belong to the calling goroutine.
func FitLabel(label Label, faces *FontFaceCache, config *Config, scale float64,
	log *Logger) (FitResult, error) {
	result := FitResult{Name: label.Name}
	if err := label.Validate(); err != nil {
		return result, err
	}
	fitConfig, err := label.FitConfig()
	if err != nil {
		return result, fmt.Errorf("label %q: %w", label.Name, err)
	}
	if scale == 0 {
		scale = config.Scale
	}
	style := fit.Style{DefaultFontSize: fit.Size(config.DefaultFontSize), Scale: scale}

	ctrl, err := fit.New(fitConfig, style, fit.WithObserver(func(o fit.Outcome, d fit.Decision) {
		result.Passes = append(result.Passes, Pass{
			FontSize:       float64(d.Previous),
			Overflowed:     o.Overflowed,
			IntrinsicWidth: o.IntrinsicWidth,
			Next:           float64(d.FontSize),
			Reason:         d.Reason,
		})
	}))
	if err != nil {
		return result, fmt.Errorf("label %q: %w", label.Name, err)
	}

	measurer := Measurer{
		Faces:       faces,
		BoxWidth:    label.Box.W - 2*config.Inset.X,
		BoxHeight:   label.Box.H - 2*config.Inset.Y,
		MaxLines:    label.MaxLines,
		Wrap:        label.Wrap,
		LineSpacing: config.LineSpacing,
		WidthHint:   config.WidthHint,
	}
	if measurer.BoxWidth <= 0 || measurer.BoxHeight <= 0 {
		return result, fmt.Errorf("label %q: box %vx%v is smaller than the inset",
			label.Name, label.Box.W, label.Box.H)
	}
	text := label.DisplayText()

	var last, best Measurement
	var bestSize fit.Size
	maxPasses := config.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	for pass := 0; pass < maxPasses; pass++ {
		size := ctrl.FontSize()
		last = measurer.Measure(text, size)
		if !last.Outcome.Overflowed && size > bestSize {
			best, bestSize = last, size
		}
		if d := ctrl.Next(last.Outcome); !d.Changed() {
			result.Converged = true
			break
		}
	}

	size := ctrl.FontSize()
	if !result.Converged {
		last = measurer.Measure(text, size)
		if last.Outcome.Overflowed && bestSize.Specified() {
			log.Dbg("%s: settling on %v after %d passes", label.Name, bestSize, maxPasses)
			last, size = best, bestSize
			result.Settled = true
		}
	}
	result.FontSize = float64(size)
	result.Lines = last.Lines
	result.Width = last.Width
	result.Height = last.Height
	result.Overflowed = last.Outcome.Overflowed
	if result.Overflowed {
		log.Msg("%s does not fit its box at %.1f", labelName(label), result.FontSize)
	}
	return result, nil
}

func labelName(label Label) string {
	if label.Name != "" {
		return label.Name
	}
	return fmt.Sprintf("%q", label.Text)
}

// GenerateSheets renders every sheet and returns the encoded images in sheet
// order along with the total number of bytes.
func GenerateSheets(sheets []Sheet, config *Config, log *Logger) ([]bytes.Buffer, int) {
	files := make([]bytes.Buffer, len(sheets))
	var totalBytes int64

	var wg sync.WaitGroup
	for idx, sheet := range sheets {
		wg.Add(1)
		go func(idx int, sheet Sheet) {
			defer wg.Done()
			imgBytes, _, err := GenerateSheet(sheet, config, log)
			if err != nil {
				log.Err("sheet %s: %v", sheet.Name, err)
				return
			}
			files[idx] = imgBytes
			atomic.AddInt64(&totalBytes, int64(imgBytes.Len()))
		}(idx, sheet)
	}
	wg.Wait()
	return files, int(totalBytes)
}

// GenerateSheet fits each label on its own goroutine, draws the labels in
// order and encodes the sheet as a jpg.
func GenerateSheet(sheet Sheet, config *Config, log *Logger) (bytes.Buffer, []FitResult, error) {
	var imgBytes bytes.Buffer
	ttf, err := LoadFont(config.FontsDir, config.Font)
	if err != nil {
		return imgBytes, nil, err
	}
	dc, err := newCanvas(sheet, config, log)
	if err != nil {
		return imgBytes, nil, err
	}
	AssignColours(&sheet, config)

	results := make([]FitResult, len(sheet.Labels))
	ok := make([]bool, len(sheet.Labels))
	var wg sync.WaitGroup
	for idx, label := range sheet.Labels {
		wg.Add(1)
		go func(idx int, label Label) {
			defer wg.Done()
			// font.Face is not thread safe so every label gets its own cache
			faces := NewFontFaceCache(ttf)
			defer faces.Close()
			result, err := FitLabel(label, faces, config, 0, log)
			if err != nil {
				log.Err("%s: %v", sheet.Name, err)
				return
			}
			results[idx], ok[idx] = result, true
		}(idx, label)
	}
	wg.Wait()

	faces := NewFontFaceCache(ttf)
	defer faces.Close()
	for idx, label := range sheet.Labels {
		if !ok[idx] {
			continue
		}
		drawLabel(dc, label, results[idx], faces, config)
	}

	quality := config.JpgQuality
	if quality == 0 {
		quality = DefaultJpgQuality
	}
	err = jpeg.Encode(&imgBytes, dc.Image(), &jpeg.EncoderOptions{Quality: quality})
	if err != nil {
		return imgBytes, results, fmt.Errorf("jpeg encode: %w", err)
	}
	return imgBytes, results, nil
}

func newCanvas(sheet Sheet, config *Config, log *Logger) (*gg.Context, error) {
	if sheet.Image != "" {
		if !filepath.IsLocal(sheet.Image) {
			log.Err("sheet %s: image %q is outside the images directory", sheet.Name, sheet.Image)
			return nil, fmt.Errorf("sheet %s: image %q is not a local path", sheet.Name, sheet.Image)
		}
		img, err := decodeJpg(filepath.Join(config.ImagesDir, sheet.Image), log)
		if err != nil {
			return nil, err
		}
		return gg.NewContextForRGBA(img), nil
	}
	if sheet.Size.W <= 0 || sheet.Size.H <= 0 {
		return nil, fmt.Errorf("sheet %s has no image and no size", sheet.Name)
	}
	maxPixels := config.MaxSheetPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxSheetPixels
	}
	if int64(sheet.Size.W)*int64(sheet.Size.H) > maxPixels {
		log.Err("sheet %s: %dx%d exceeds %d pixels", sheet.Name, sheet.Size.W, sheet.Size.H, maxPixels)
		return nil, fmt.Errorf("sheet %s: size %dx%d is too large", sheet.Name, sheet.Size.W, sheet.Size.H)
	}
	dc := gg.NewContext(sheet.Size.W, sheet.Size.H)
	background := sheet.BackgroundColour
	if background == "" {
		background = config.BackgroundColour
	}
	dc.SetHexColor(background)
	dc.Clear()
	return dc, nil
}

func decodeJpg(imageName string, log *Logger) (image *image.RGBA, err error) {
	var r *os.File
	r, err = os.Open(imageName)
	if err != nil {
		log.Err("failed to open: %v", err)
		return
	}
	defer r.Close()

	image, err = jpeg.DecodeIntoRGBA(r, &jpeg.DecoderOptions{})
	if err != nil {
		log.Err("failed to decode: %v", err)
		return
	}
	return
}

// drawLabel paints the label's box and its fitted lines centred in it.
func drawLabel(dc *gg.Context, label Label, result FitResult, faces *FontFaceCache,
	config *Config) {
	box := label.Box
	if label.BackgroundColour != "" {
		dc.SetHexColor(label.BackgroundColour)
		dc.DrawRoundedRectangle(box.X, box.Y, box.W, box.H, 6)
		dc.Fill()
	}
	textColour := label.TextColour
	if textColour == "" {
		textColour = config.TextColour
	}
	dc.SetHexColor(textColour)
	face := faces.Face(result.FontSize)
	dc.SetFontFace(face)

	spacing := config.LineSpacing
	if spacing == 0 {
		spacing = DefaultLineSpacing
	}
	lineHeight := fixedToFloat(face.Metrics().Height) * spacing
	// Vertically center
	y := box.Y + (box.H-result.Height)/2
	for _, line := range result.Lines {
		dc.DrawStringAnchored(line, box.X+box.W/2, y, 0.5, 0.8)
		y += lineHeight
	}
}
