package pricing

import (
	"errors"
	"fmt"

	"github.com/genarionogueira/val-risk-platform/curve"
	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
)

// ErrZeroAnnuity is returned when a par rate or spread has no accrual to divide by.
var ErrZeroAnnuity = errors.New("annuity is zero")

// SwapLegPV holds the present value of each swap leg.
type SwapLegPV struct {
	FixedLegPV float64 `json:"fixed_leg_pv"`
	FloatLegPV float64 `json:"float_leg_pv"`
	// Annuity is sum of notional * accrual * DF over the fixed schedule.
	Annuity float64 `json:"annuity"`
}

// NPV is the receive-float, pay-fixed value.
func (l SwapLegPV) NPV() float64 {
	return l.FloatLegPV - l.FixedLegPV
}

// SwapPricer values single-curve fixed/float swaps from the receive-float side.
type SwapPricer struct{}

func (SwapPricer) CanPrice(inst instruments.Instrument) bool {
	_, ok := as[instruments.FixedFloatSwap](inst)
	return ok
}

func (SwapPricer) NPV(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	s, ok := as[instruments.FixedFloatSwap](inst)
	if !ok {
		return 0, unsupported("SwapPricer", inst)
	}
	legs, err := SwapLegs(s, mkt)
	if err != nil {
		return 0, err
	}
	return legs.NPV(), nil
}

// SwapLegs values both legs of s.
//
// Accruals come from consecutive pay times starting at s.T0. Float forwards are
// implied by the curve: f_i = (DF(t_{i-1})/DF(t_i) - 1) / accrual_i, zero for non-positive accruals.
func SwapLegs(s instruments.FixedFloatSwap, mkt *market.Market) (SwapLegPV, error) {
	c, err := mkt.Curve(s.Curve)
	if err != nil {
		return SwapLegPV{}, fmt.Errorf("SwapLegs: %w", err)
	}

	var out SwapLegPV
	prev := s.T0
	dfPrev, err := c.DF(prev)
	if err != nil {
		return SwapLegPV{}, fmt.Errorf("SwapLegs: t0 %g: %w", prev, err)
	}
	for _, t := range s.PayTimes {
		accrual := t - prev
		df, err := c.DF(t)
		if err != nil {
			return SwapLegPV{}, fmt.Errorf("SwapLegs: pay time %g: %w", t, err)
		}

		out.FixedLegPV += s.Notional * s.FixedRate * accrual * df
		out.Annuity += s.Notional * accrual * df

		fwd := 0.0
		if accrual > 0 {
			fwd = (dfPrev/df - 1.0) / accrual
		}
		out.FloatLegPV += s.Notional * fwd * accrual * df

		prev = t
		dfPrev = df
	}
	return out, nil
}

// SwapParRate returns the fixed rate that sets the swap value to zero.
func SwapParRate(s instruments.FixedFloatSwap, mkt *market.Market) (float64, error) {
	legs, err := SwapLegs(s, mkt)
	if err != nil {
		return 0, err
	}
	if legs.Annuity == 0 {
		return 0, fmt.Errorf("SwapParRate: %w", ErrZeroAnnuity)
	}
	return legs.FloatLegPV / legs.Annuity, nil
}

// discount is a convenience for pricers that need a single DF with a labelled error.
func discount(c curve.Curve, t float64, label string) (float64, error) {
	df, err := c.DF(t)
	if err != nil {
		return 0, fmt.Errorf("%s %g: %w", label, t, err)
	}
	return df, nil
}
