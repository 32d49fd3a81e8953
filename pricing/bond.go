package pricing

import (
	"fmt"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
)

// BondPricer values zero-coupon bonds: notional * DF(maturity).
type BondPricer struct{}

func (BondPricer) CanPrice(inst instruments.Instrument) bool {
	_, ok := as[instruments.ZeroCouponBond](inst)
	return ok
}

func (BondPricer) NPV(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	bond, ok := as[instruments.ZeroCouponBond](inst)
	if !ok {
		return 0, unsupported("BondPricer", inst)
	}
	c, err := mkt.Curve(bond.Curve)
	if err != nil {
		return 0, fmt.Errorf("BondPricer: %w", err)
	}
	df, err := c.DF(bond.Maturity)
	if err != nil {
		return 0, fmt.Errorf("BondPricer: maturity %g: %w", bond.Maturity, err)
	}
	return bond.Notional * df, nil
}
