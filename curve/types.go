package curve

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when pillars and rates differ in length.
	ErrLengthMismatch = errors.New("pillars and rates must have the same length")
	// ErrPillarsNotIncreasing is returned when pillars are not strictly increasing.
	ErrPillarsNotIncreasing = errors.New("pillars must be strictly increasing")
	// ErrNegativePillar is returned when a pillar time is below zero.
	ErrNegativePillar = errors.New("pillars must be >= 0")
	// ErrNegativeTime is returned when a curve is queried at t < 0.
	ErrNegativeTime = errors.New("t must be >= 0")
	// ErrEmptyCurve is returned when a curve without pillars is queried.
	ErrEmptyCurve = errors.New("curve has no pillars")
)

// Curve is a named term structure that yields a discount-like quantity.
//
// For rate curves DF is the discount factor; for hazard curves it is the survival
// probability S(t). Implementations must be safe for concurrent reads.
type Curve interface {
	Name() string
	DF(t float64) (float64, error)
	// Bumped returns a new curve with every rate shifted by bump (absolute, 1bp = 0.0001).
	Bumped(bump float64) Curve
}

// ValidationError reports a malformed curve definition.
type ValidationError struct {
	Curve string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("curve %q: %v", e.Curve, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// points is the pillar/rate grid shared by both curve variants.
type points struct {
	name    string
	pillars []float64
	rates   []float64
	t0      float64
}

func newPoints(name string, pillars, rates []float64, t0 float64) (points, error) {
	if len(pillars) != len(rates) {
		return points{}, &ValidationError{Curve: name, Err: ErrLengthMismatch}
	}
	for i, p := range pillars {
		if p < 0 {
			return points{}, &ValidationError{Curve: name, Err: fmt.Errorf("%w (pillar %d = %g)", ErrNegativePillar, i, p)}
		}
		if i > 0 && p <= pillars[i-1] {
			return points{}, &ValidationError{Curve: name, Err: ErrPillarsNotIncreasing}
		}
	}
	return points{
		name:    name,
		pillars: append([]float64(nil), pillars...),
		rates:   append([]float64(nil), rates...),
		t0:      t0,
	}, nil
}

func (p points) shifted(bump float64) points {
	rates := make([]float64, len(p.rates))
	for i, r := range p.rates {
		rates[i] = r + bump
	}
	return points{
		name:    p.name,
		pillars: append([]float64(nil), p.pillars...),
		rates:   rates,
		t0:      p.t0,
	}
}

// check validates a query time against the grid.
func (p points) check(t float64) error {
	if t < 0 {
		return ErrNegativeTime
	}
	if len(p.pillars) == 0 {
		return ErrEmptyCurve
	}
	return nil
}

// Name returns the curve name.
func (p points) Name() string { return p.name }

// Pillars returns a copy of the pillar times.
func (p points) Pillars() []float64 { return append([]float64(nil), p.pillars...) }

// Rates returns a copy of the per-pillar rates.
func (p points) Rates() []float64 { return append([]float64(nil), p.rates...) }

// T0 returns the reference time.
func (p points) T0() float64 { return p.t0 }
