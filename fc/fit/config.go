package fit

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by New for configurations that cannot be fitted.
var ErrInvalidConfig = errors.New("invalid fit config")

// BoundsMode selects how the floor and ceiling are compared with the size.
type BoundsMode int

const (
	// BoundsAbsolute compares MinFontSize/MaxFontSize with the rendered size.
	BoundsAbsolute BoundsMode = iota
	// BoundsScaled compares ScaleDownUntil/ScaleUpUntil with the rendered
	// size divided by the ambient scale.
	BoundsScaled
)

func (m BoundsMode) String() string {
	switch m {
	case BoundsAbsolute:
		return "absolute"
	case BoundsScaled:
		return "scaled"
	}
	return fmt.Sprintf("BoundsMode(%d)", int(m))
}

// ParseBoundsMode maps a config string to a BoundsMode. Empty means absolute.
func ParseBoundsMode(s string) (BoundsMode, error) {
	switch s {
	case "", "absolute":
		return BoundsAbsolute, nil
	case "scaled":
		return BoundsScaled, nil
	}
	return BoundsAbsolute, fmt.Errorf("%w: unknown bounds %q", ErrInvalidConfig, s)
}

// Config is the per-label fitting configuration. It does not change during
// the life of a label.
type Config struct {
	FontSize    Size
	MinFontSize Size
	MaxFontSize Size

	ScaleDownUntil Size
	ScaleUpUntil   Size

	Bounds BoundsMode
}

// Style is the ambient text style a label inherits from.
type Style struct {
	// FontSize inherited from the style. Counts as a specified size.
	FontSize Size
	// DefaultFontSize is used when neither the label nor the style set a size.
	DefaultFontSize Size
	// Scale converts logical sizes to rendered sizes. Zero means 1.
	Scale float64
}

func (s Style) scale() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

// specifiedSize returns the explicit size, else the style size, else
// Unspecified.
func (c Config) specifiedSize(style Style) Size {
	if c.FontSize.Specified() {
		return c.FontSize
	}
	return style.FontSize
}

// Validate rejects configurations whose behaviour is undefined.
func (c Config) Validate(style Style) error {
	for _, v := range []struct {
		name string
		size Size
	}{
		{"fontSize", c.FontSize},
		{"minFontSize", c.MinFontSize},
		{"maxFontSize", c.MaxFontSize},
		{"scaleDownUntil", c.ScaleDownUntil},
		{"scaleUpUntil", c.ScaleUpUntil},
		{"style fontSize", style.FontSize},
		{"default fontSize", style.DefaultFontSize},
	} {
		if v.size < 0 {
			return fmt.Errorf("%w: %s %v is negative", ErrInvalidConfig, v.name, float64(v.size))
		}
	}
	if style.Scale < 0 {
		return fmt.Errorf("%w: scale %v is negative", ErrInvalidConfig, style.Scale)
	}
	switch c.Bounds {
	case BoundsAbsolute:
		if c.MinFontSize.Specified() && c.MaxFontSize.Specified() && c.MinFontSize > c.MaxFontSize {
			return fmt.Errorf("%w: minFontSize %v > maxFontSize %v", ErrInvalidConfig,
				c.MinFontSize, c.MaxFontSize)
		}
	case BoundsScaled:
		if c.ScaleDownUntil.Specified() && c.ScaleUpUntil.Specified() && c.ScaleDownUntil > c.ScaleUpUntil {
			return fmt.Errorf("%w: scaleDownUntil %v > scaleUpUntil %v", ErrInvalidConfig,
				c.ScaleDownUntil, c.ScaleUpUntil)
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Bounds)
	}
	if !c.specifiedSize(style).Specified() && !style.DefaultFontSize.Specified() {
		return fmt.Errorf("%w: no font size and no ambient default", ErrInvalidConfig)
	}
	return nil
}
