package pricing

import (
	"fmt"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
)

// FXPricer values FX forwards under covered interest parity; results are in quote currency.
type FXPricer struct{}

func (FXPricer) CanPrice(inst instruments.Instrument) bool {
	_, ok := as[instruments.FXForward](inst)
	return ok
}

func (FXPricer) NPV(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	f, ok := as[instruments.FXForward](inst)
	if !ok {
		return 0, unsupported("FXPricer", inst)
	}
	q, err := fxInputs(f, mkt)
	if err != nil {
		return 0, fmt.Errorf("FXPricer: %w", err)
	}
	return f.NotionalBase * q.dfQuote * (q.forward() - f.Strike), nil
}

// FXForwardRate returns spot * DF_base(T) / DF_quote(T).
func FXForwardRate(f instruments.FXForward, mkt *market.Market) (float64, error) {
	q, err := fxInputs(f, mkt)
	if err != nil {
		return 0, fmt.Errorf("FXForwardRate: %w", err)
	}
	return q.forward(), nil
}

type fxQuote struct {
	spot, dfBase, dfQuote float64
}

func (q fxQuote) forward() float64 {
	return q.spot * q.dfBase / q.dfQuote
}

func fxInputs(f instruments.FXForward, mkt *market.Market) (fxQuote, error) {
	spot, err := mkt.FX(f.Pair)
	if err != nil {
		return fxQuote{}, err
	}
	base, err := mkt.Curve(f.BaseCurve)
	if err != nil {
		return fxQuote{}, err
	}
	quote, err := mkt.Curve(f.QuoteCurve)
	if err != nil {
		return fxQuote{}, err
	}
	dfBase, err := discount(base, f.Maturity, "base maturity")
	if err != nil {
		return fxQuote{}, err
	}
	dfQuote, err := discount(quote, f.Maturity, "quote maturity")
	if err != nil {
		return fxQuote{}, err
	}
	return fxQuote{spot: spot, dfBase: dfBase, dfQuote: dfQuote}, nil
}
