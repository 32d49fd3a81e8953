package curve

import (
	"fmt"
	"math"

	"github.com/genarionogueira/val-risk-platform/utils"
)

// HazardRateCurve is a credit curve with piecewise-constant default intensity.
//
// hazardRates[i] applies on the segment [prev, pillars[i]] where prev is t0 for the first
// segment and pillars[i-1] afterwards. The last hazard rate is extended flat beyond the
// final pillar. DF returns the survival probability S(t), not a discount factor.
type HazardRateCurve struct {
	points
}

var _ Curve = (*HazardRateCurve)(nil)

// NewHazardRateCurve validates and builds a hazard curve. Input slices are copied.
func NewHazardRateCurve(name string, pillars, hazardRates []float64, t0 float64) (*HazardRateCurve, error) {
	p, err := newPoints(name, pillars, hazardRates, t0)
	if err != nil {
		return nil, err
	}
	return &HazardRateCurve{points: p}, nil
}

// HazardRate returns the piecewise-constant hazard at t, flat beyond both end pillars.
func (c *HazardRateCurve) HazardRate(t float64) (float64, error) {
	if err := c.check(t); err != nil {
		return 0, fmt.Errorf("HazardRate: curve %s: %w", c.name, err)
	}
	n := len(c.pillars)
	if t <= c.pillars[0] {
		return c.rates[0], nil
	}
	if t >= c.pillars[n-1] {
		return c.rates[n-1], nil
	}

	// pillars[i] < t <= pillars[i+1]
	i, _ := utils.Bracket(t, c.pillars)
	return c.rates[i], nil
}

// DF returns the survival probability S(t) = exp(-integral of hazard from t0 to t).
func (c *HazardRateCurve) DF(t float64) (float64, error) {
	if t <= 0 {
		return 1.0, nil
	}
	if len(c.pillars) == 0 {
		return 0, fmt.Errorf("DF: curve %s: %w", c.name, ErrEmptyCurve)
	}

	integral := 0.0
	prev := c.t0
	for i, p := range c.pillars {
		end := math.Min(p, t)
		if end > prev {
			integral += c.rates[i] * (end - prev)
		}
		prev = p
		if prev >= t {
			break
		}
	}
	last := len(c.pillars) - 1
	if t > c.pillars[last] {
		integral += c.rates[last] * (t - c.pillars[last])
	}
	return math.Exp(-integral), nil
}

// Bumped returns a new curve with a parallel additive shift applied to all hazard rates.
func (c *HazardRateCurve) Bumped(bump float64) Curve {
	return &HazardRateCurve{points: c.shifted(bump)}
}
