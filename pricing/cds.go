package pricing

import (
	"fmt"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
)

// CDSLegPV is the leg breakdown of a CDS from the protection buyer's side.
type CDSLegPV struct {
	PremiumLegPV    float64 `json:"premium_leg_pv"`
	ProtectionLegPV float64 `json:"protection_leg_pv"`
	// RiskyAnnuity is sum of notional * accrual * DF(t_i) * S(t_i).
	RiskyAnnuity float64 `json:"risky_annuity"`
}

// CDSPricer values single-name CDS with default settled at period midpoints.
type CDSPricer struct{}

func (CDSPricer) CanPrice(inst instruments.Instrument) bool {
	_, ok := as[instruments.CDS](inst)
	return ok
}

func (CDSPricer) NPV(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	c, ok := as[instruments.CDS](inst)
	if !ok {
		return 0, unsupported("CDSPricer", inst)
	}
	legs, err := CDSLegs(c, mkt)
	if err != nil {
		return 0, err
	}
	npv := legs.ProtectionLegPV - legs.PremiumLegPV
	if !c.ProtectionBuyer {
		npv = -npv
	}
	return npv, nil
}

// CDSLegs values the premium and protection legs of c.
//
// Premium: sum N * s * accrual_i * DF(t_i) * S(t_i).
// Protection: sum N * (1-R) * DF((t_{i-1}+t_i)/2) * (S(t_{i-1}) - S(t_i)).
func CDSLegs(c instruments.CDS, mkt *market.Market) (CDSLegPV, error) {
	disc, err := mkt.Curve(c.DiscountCurve)
	if err != nil {
		return CDSLegPV{}, fmt.Errorf("CDSLegs: %w", err)
	}
	surv, err := mkt.Curve(c.SurvivalCurve)
	if err != nil {
		return CDSLegPV{}, fmt.Errorf("CDSLegs: %w", err)
	}

	var out CDSLegPV
	prev := c.T0
	sPrev, err := discount(surv, prev, "CDSLegs: survival at t0")
	if err != nil {
		return CDSLegPV{}, err
	}
	for _, t := range c.PayTimes {
		accrual := t - prev
		df, err := discount(disc, t, "CDSLegs: pay time")
		if err != nil {
			return CDSLegPV{}, err
		}
		s, err := discount(surv, t, "CDSLegs: survival at")
		if err != nil {
			return CDSLegPV{}, err
		}
		dfMid, err := discount(disc, (prev+t)/2.0, "CDSLegs: mid period")
		if err != nil {
			return CDSLegPV{}, err
		}

		out.RiskyAnnuity += c.Notional * accrual * df * s
		out.ProtectionLegPV += c.Notional * (1.0 - c.Recovery) * dfMid * (sPrev - s)

		prev = t
		sPrev = s
	}
	out.PremiumLegPV = c.PremiumRate * out.RiskyAnnuity
	return out, nil
}

// FairSpread returns the premium rate at which the CDS is worth zero.
// It is zero when the risky annuity is not positive.
func FairSpread(c instruments.CDS, mkt *market.Market) (float64, error) {
	legs, err := CDSLegs(c, mkt)
	if err != nil {
		return 0, err
	}
	if legs.RiskyAnnuity <= 0 {
		return 0, nil
	}
	return legs.ProtectionLegPV / legs.RiskyAnnuity, nil
}
