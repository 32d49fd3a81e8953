package marketdata

import (
	"errors"
	"fmt"

	"github.com/genarionogueira/val-risk-platform/curve"
	"github.com/genarionogueira/val-risk-platform/market"
)

// ErrNoCurves is returned for a market input without discount curves.
var ErrNoCurves = errors.New("market.curves must not be empty")

// CurveInput is a zero curve as exchanged with clients and on the update streams.
type CurveInput struct {
	Name        string    `json:"name" yaml:"name"`
	Pillars     []float64 `json:"pillars" yaml:"pillars"`
	ZeroRatesCC []float64 `json:"zero_rates_cc" yaml:"zero_rates_cc"`
	T0          float64   `json:"t0" yaml:"t0"`
}

// HazardCurveInput is a hazard curve; its DF is the survival probability.
type HazardCurveInput struct {
	Name        string    `json:"name" yaml:"name"`
	Pillars     []float64 `json:"pillars" yaml:"pillars"`
	HazardRates []float64 `json:"hazard_rates" yaml:"hazard_rates"`
	T0          float64   `json:"t0" yaml:"t0"`
}

type FXSpotInput struct {
	Pair string  `json:"pair" yaml:"pair"`
	Spot float64 `json:"spot" yaml:"spot"`
}

// MarketInput is the plain-record form of a market snapshot.
type MarketInput struct {
	Curves       []CurveInput       `json:"curves" yaml:"curves"`
	HazardCurves []HazardCurveInput `json:"hazard_curves,omitempty" yaml:"hazard_curves,omitempty"`
	FXSpot       []FXSpotInput      `json:"fx_spot,omitempty" yaml:"fx_spot,omitempty"`
}

// Curve builds the zero curve.
func (c CurveInput) Curve() (*curve.ZeroRateCurve, error) {
	return curve.NewZeroRateCurve(c.Name, c.Pillars, c.ZeroRatesCC, c.T0)
}

// Curve builds the hazard curve.
func (h HazardCurveInput) Curve() (*curve.HazardRateCurve, error) {
	return curve.NewHazardRateCurve(h.Name, h.Pillars, h.HazardRates, h.T0)
}

// Build validates every curve and returns the snapshot.
// Hazard curves are added after zero curves and win on a name clash; later duplicates win.
func (m MarketInput) Build() (*market.Market, error) {
	if len(m.Curves) == 0 {
		return nil, ErrNoCurves
	}
	curves := make(map[string]curve.Curve, len(m.Curves)+len(m.HazardCurves))
	for _, ci := range m.Curves {
		c, err := ci.Curve()
		if err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		curves[ci.Name] = c
	}
	for _, hi := range m.HazardCurves {
		h, err := hi.Curve()
		if err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		curves[hi.Name] = h
	}
	fx := make(map[string]float64, len(m.FXSpot))
	for _, s := range m.FXSpot {
		fx[s.Pair] = s.Spot
	}
	return market.New(curves, fx), nil
}

// WithCurve returns a copy of m whose zero curve named c.Name is replaced by c,
// or appended when absent.
func (m MarketInput) WithCurve(c CurveInput) MarketInput {
	out := MarketInput{
		Curves:       make([]CurveInput, 0, len(m.Curves)+1),
		HazardCurves: append([]HazardCurveInput(nil), m.HazardCurves...),
		FXSpot:       append([]FXSpotInput(nil), m.FXSpot...),
	}
	replaced := false
	for _, existing := range m.Curves {
		if existing.Name == c.Name {
			existing = c
			replaced = true
		}
		out.Curves = append(out.Curves, existing)
	}
	if !replaced {
		out.Curves = append(out.Curves, c)
	}
	return out
}
