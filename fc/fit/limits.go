package fit

// Limits compares a rendered size against a floor and a configured ceiling.
// The ceiling here does not include the specified size; Step enforces that
// one separately.
type Limits interface {
	// CanShrink reports whether size is above the floor.
	CanShrink(size Size) bool
	// CanGrow reports whether size is below the configured ceiling.
	CanGrow(size Size) bool
	// Floor returns the rendered floor, or Unspecified.
	Floor() Size
	// Ceiling returns the rendered configured ceiling, or Unspecified.
	Ceiling() Size
}

// NewLimits returns the Limits for the bounds mode of cfg.
func NewLimits(cfg Config, style Style) Limits {
	if cfg.Bounds == BoundsScaled {
		return ScaledLimits{DownUntil: cfg.ScaleDownUntil, UpUntil: cfg.ScaleUpUntil,
			Scale: style.scale()}
	}
	return AbsoluteLimits{Min: cfg.MinFontSize, Max: cfg.MaxFontSize}
}

// AbsoluteLimits bounds the rendered size directly.
type AbsoluteLimits struct {
	Min Size
	Max Size
}

func (l AbsoluteLimits) CanShrink(size Size) bool {
	return !l.Min.Specified() || l.Min < size
}

func (l AbsoluteLimits) CanGrow(size Size) bool {
	return !l.Max.Specified() || l.Max > size
}

func (l AbsoluteLimits) Floor() Size   { return l.Min }
func (l AbsoluteLimits) Ceiling() Size { return l.Max }

// ScaledLimits bounds the logical size, i.e. the rendered size divided by
// Scale.
type ScaledLimits struct {
	DownUntil Size
	UpUntil   Size
	Scale     float64
}

func (l ScaledLimits) logical(size Size) Size {
	return Size(float64(size) / l.Scale)
}

func (l ScaledLimits) CanShrink(size Size) bool {
	return !l.DownUntil.Specified() || l.DownUntil < l.logical(size)
}

func (l ScaledLimits) CanGrow(size Size) bool {
	return !l.UpUntil.Specified() || l.UpUntil > l.logical(size)
}

func (l ScaledLimits) Floor() Size {
	if !l.DownUntil.Specified() {
		return Unspecified
	}
	return Size(float64(l.DownUntil) * l.Scale)
}

func (l ScaledLimits) Ceiling() Size {
	if !l.UpUntil.Specified() {
		return Unspecified
	}
	return Size(float64(l.UpUntil) * l.Scale)
}
