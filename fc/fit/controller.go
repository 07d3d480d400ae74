// Package fit decides the font size of a label that must fit its box.
//
// A Controller owns the current size of one label. The rendering layer draws
// the text at Controller.FontSize, measures it and hands the Outcome to
// Controller.Next, which moves the size one step towards a fit. The caller
// re-renders until Next reports no change.
package fit

import "fmt"

// Outcome is what the rendering layer reports after laying text out.
type Outcome struct {
	// Overflowed is set when the text was clipped or exceeded its limits.
	Overflowed bool
	// IntrinsicWidth is the unconstrained width of the text at the current
	// size. Zero means no hint.
	IntrinsicWidth float64
	// BoxWidth is the width available to the text.
	BoxWidth float64
}

func (o Outcome) hasHint() bool {
	return o.IntrinsicWidth > 0
}

// Reason explains a Decision.
type Reason int

const (
	Grew Reason = iota
	Shrank
	FalseOverflow
	AtFloor
	AtCeiling
	ClampedToSpecified
	ClampedToCeiling
	ClampedToFloor
)

var reasonNames = [...]string{
	Grew:               "grew",
	Shrank:             "shrank",
	FalseOverflow:      "false-overflow",
	AtFloor:            "at-floor",
	AtCeiling:          "at-ceiling",
	ClampedToSpecified: "clamped-to-specified",
	ClampedToCeiling:   "clamped-to-ceiling",
	ClampedToFloor:     "clamped-to-floor",
}

func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// MarshalText lets reasons appear by name in JSON and YAML.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a name written by MarshalText.
func (r *Reason) UnmarshalText(text []byte) error {
	for i, name := range reasonNames {
		if name == string(text) {
			*r = Reason(i)
			return nil
		}
	}
	return fmt.Errorf("unknown reason %q", text)
}

// Decision is the result of one step.
type Decision struct {
	Previous Size
	FontSize Size
	Reason   Reason
}

// Changed reports whether the step moved the size. The fit loop stops at the
// first unchanged decision.
func (d Decision) Changed() bool {
	return d.FontSize != d.Previous
}

// Policy is the resolved, immutable input of Step.
type Policy struct {
	// Specified is the explicit or style-inherited size. Growth never goes
	// past it.
	Specified Size
	Limits    Limits
}

// NewPolicy resolves cfg against the ambient style.
func NewPolicy(cfg Config, style Style) Policy {
	return Policy{
		Specified: cfg.specifiedSize(style),
		Limits:    NewLimits(cfg, style),
	}
}

// ceiling is the smaller of the specified and configured ceilings. It never
// drops below the floor.
func (p Policy) ceiling() Size {
	c := p.Limits.Ceiling()
	if p.Specified.Specified() && (!c.Specified() || p.Specified < c) {
		c = p.Specified
	}
	if f := p.floor(); c.Specified() && c < f {
		c = f
	}
	return c
}

func (p Policy) floor() Size {
	f := p.Limits.Floor()
	if !f.Specified() || f < SafetyFloor {
		return SafetyFloor
	}
	return f
}

// Clamp moves size into [floor, ceiling].
func (p Policy) Clamp(size Size) Size {
	if f := p.floor(); size < f {
		return f
	}
	if c := p.ceiling(); c.Specified() && size > c {
		return c
	}
	return size
}

// Step computes the size to render next. It is pure: the same inputs always
// give the same decision.
func Step(o Outcome, current Size, p Policy) Decision {
	d := Decision{Previous: current, FontSize: current}
	floor, ceiling := p.floor(), p.ceiling()
	if current < floor {
		d.FontSize, d.Reason = floor, ClampedToFloor
		return d
	}
	if ceiling.Specified() && current > ceiling {
		d.FontSize, d.Reason = ceiling, ClampedToCeiling
		if ceiling == p.Specified {
			d.Reason = ClampedToSpecified
		}
		return d
	}

	if o.Overflowed {
		if o.hasHint() && o.IntrinsicWidth <= o.BoxWidth {
			d.Reason = FalseOverflow
			return d
		}
		if !p.Limits.CanShrink(current) || current <= floor {
			d.Reason = AtFloor
			return d
		}
		next := current * ShrinkFactor
		if next < floor {
			next = floor
		}
		d.FontSize, d.Reason = next, Shrank
		return d
	}

	if ceiling.Specified() && current >= ceiling {
		d.Reason = AtCeiling
		return d
	}
	if !p.Limits.CanGrow(current) {
		d.Reason = AtCeiling
		return d
	}
	next := current * GrowthFactor
	if ceiling.Specified() && next > ceiling {
		next = ceiling
	}
	d.FontSize, d.Reason = next, Grew
	return d
}

// State is the mutable part of a label's fit.
type State struct {
	FontSize Size
	Passes   int
}

// Observer receives every outcome handed to a Controller together with the
// decision it produced.
type Observer func(Outcome, Decision)

// Option configures a Controller.
type Option func(*Controller)

// WithObserver passes outcomes through to fn after each decision.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, fn)
	}
}

// Controller holds the fit state of a single label. It is not safe for
// concurrent use; each label owns its own.
type Controller struct {
	policy    Policy
	state     State
	observers []Observer
}

// New validates cfg and returns a controller starting at the specified size,
// or the ambient default when none is specified, clamped into the bounds.
func New(cfg Config, style Style, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(style); err != nil {
		return nil, err
	}
	c := &Controller{policy: NewPolicy(cfg, style)}
	c.state.FontSize = c.policy.Specified
	if !c.state.FontSize.Specified() {
		c.state.FontSize = style.DefaultFontSize
	}
	c.state.FontSize = c.policy.Clamp(c.state.FontSize)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FontSize is the size to render with.
func (c *Controller) FontSize() Size {
	return c.state.FontSize
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Policy returns the resolved bounds.
func (c *Controller) Policy() Policy {
	return c.policy
}

// Next applies one decision step for the measurement o.
func (c *Controller) Next(o Outcome) Decision {
	d := Step(o, c.state.FontSize, c.policy)
	c.state.FontSize = d.FontSize
	c.state.Passes++
	for _, fn := range c.observers {
		fn(o, d)
	}
	return d
}
