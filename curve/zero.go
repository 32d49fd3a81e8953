package curve

import (
	"fmt"
	"math"

	"github.com/genarionogueira/val-risk-platform/utils"
)

// ZeroRateCurve is a continuously compounded zero curve with linear interpolation in rates.
//
// Times are year fractions measured from t0; rates are decimals (0.045 == 4.5%).
// Rates are flat before the first pillar and after the last one.
type ZeroRateCurve struct {
	points
}

var _ Curve = (*ZeroRateCurve)(nil)

// NewZeroRateCurve validates and builds a zero curve. Input slices are copied.
func NewZeroRateCurve(name string, pillars, zeroRatesCC []float64, t0 float64) (*ZeroRateCurve, error) {
	p, err := newPoints(name, pillars, zeroRatesCC, t0)
	if err != nil {
		return nil, err
	}
	return &ZeroRateCurve{points: p}, nil
}

// ZeroRateCC returns the continuously compounded zero rate at t.
func (c *ZeroRateCurve) ZeroRateCC(t float64) (float64, error) {
	if err := c.check(t); err != nil {
		return 0, fmt.Errorf("ZeroRateCC: curve %s: %w", c.name, err)
	}
	n := len(c.pillars)
	if t <= c.pillars[0] {
		return c.rates[0], nil
	}
	if t >= c.pillars[n-1] {
		return c.rates[n-1], nil
	}

	i, j := utils.Bracket(t, c.pillars)
	t1, t2 := c.pillars[i], c.pillars[j]
	r1, r2 := c.rates[i], c.rates[j]
	return r1 + (r2-r1)*(t-t1)/(t2-t1), nil
}

// DF returns the discount factor exp(-r(t)*t).
func (c *ZeroRateCurve) DF(t float64) (float64, error) {
	r, err := c.ZeroRateCC(t)
	if err != nil {
		return 0, err
	}
	return math.Exp(-r * t), nil
}

// Bumped returns a new curve with a parallel additive shift applied to all zero rates.
func (c *ZeroRateCurve) Bumped(bump float64) Curve {
	return &ZeroRateCurve{points: c.shifted(bump)}
}
