package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
)

// ErrEmptySchedule is returned for a mortgage whose term yields no payments.
var ErrEmptySchedule = errors.New("mortgage schedule has no payments")

// MortgagePricer values level-pay mortgages from the lender's side.
type MortgagePricer struct{}

func (MortgagePricer) CanPrice(inst instruments.Instrument) bool {
	_, ok := as[instruments.LevelPayMortgage](inst)
	return ok
}

func (MortgagePricer) NPV(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	m, ok := as[instruments.LevelPayMortgage](inst)
	if !ok {
		return 0, unsupported("MortgagePricer", inst)
	}
	payment, err := MortgagePayment(m)
	if err != nil {
		return 0, fmt.Errorf("MortgagePricer: %w", err)
	}
	c, err := mkt.Curve(m.Curve)
	if err != nil {
		return 0, fmt.Errorf("MortgagePricer: %w", err)
	}

	n := numPayments(m)
	ppy := float64(m.PaymentsPerYear)
	pv := 0.0
	for i := 1; i <= n; i++ {
		df, err := discount(c, float64(i)/ppy, "MortgagePricer: pay time")
		if err != nil {
			return 0, err
		}
		pv += payment * df
	}
	return pv, nil
}

// MortgagePayment returns the level periodic payment.
//
// With periodic rate r and n = int(term * payments per year) periods the payment is
// N * r(1+r)^n / ((1+r)^n - 1), or N/n when r is zero.
func MortgagePayment(m instruments.LevelPayMortgage) (float64, error) {
	n := numPayments(m)
	if n < 1 {
		return 0, fmt.Errorf("MortgagePayment: term %g x %d: %w", m.TermYears, m.PaymentsPerYear, ErrEmptySchedule)
	}
	r := m.AnnualRate / float64(m.PaymentsPerYear)
	if r == 0 {
		return m.Notional / float64(n), nil
	}
	growth := math.Pow(1+r, float64(n))
	return m.Notional * r * growth / (growth - 1), nil
}

func numPayments(m instruments.LevelPayMortgage) int {
	if m.PaymentsPerYear <= 0 {
		return 0
	}
	return int(m.TermYears * float64(m.PaymentsPerYear))
}
