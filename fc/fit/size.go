package fit

import "fmt"

// Size is a font size in abstract size units. The zero value is Unspecified.
type Size float64

// Unspecified marks an option the caller did not set.
const Unspecified Size = 0

const (
	// GrowthFactor is applied when the text fits and may grow.
	GrowthFactor = 1.1
	// ShrinkFactor is applied when the text overflows.
	ShrinkFactor = 0.9
	// SafetyFloor is the lowest size reached when no floor is configured.
	SafetyFloor Size = 1
)

// Specified reports whether the size was set by the caller.
func (s Size) Specified() bool {
	return s != Unspecified
}

func (s Size) String() string {
	if !s.Specified() {
		return "unspecified"
	}
	return fmt.Sprintf("%.4g", float64(s))
}
