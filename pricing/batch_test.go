package pricing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
	"github.com/genarionogueira/val-risk-platform/pricing"
)

func TestPriceBatch_IsolatesFailures(t *testing.T) {
	t.Parallel()

	mkt := usdMarket(t)
	jobs := []pricing.Job{
		{ID: "bond-2y", Instrument: instruments.ZeroCouponBond{Curve: "USD_DISC", Maturity: 2, Notional: 1_000_000}, Market: mkt},
		{ID: "bad-curve", Instrument: instruments.ZeroCouponBond{Curve: "JPY_DISC", Maturity: 2, Notional: 1}, Market: mkt},
		{Instrument: instruments.LevelPayMortgage{Curve: "USD_DISC", Notional: 500_000, AnnualRate: 0.06, TermYears: 5, PaymentsPerYear: 12}, Market: mkt},
		{ID: "unknown", Instrument: fixedValue{Value: 1}, Market: mkt},
	}

	results, err := pricing.PriceBatch(context.Background(), pricing.NewDefaultEngine(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	assert.Equal(t, "bond-2y", results[0].ID)
	require.NoError(t, results[0].Err)
	assert.InDelta(t, 923_116.35, results[0].NPV, 0.01)

	assert.Equal(t, "bad-curve", results[1].ID)
	assert.ErrorIs(t, results[1].Err, market.ErrNotFound)

	require.NoError(t, results[2].Err)
	_, perr := uuid.Parse(results[2].ID)
	assert.NoError(t, perr)
	assert.Equal(t, instruments.TypeLevelPayMortgage, results[2].InstrumentType)
	want, err := pricing.Price(jobs[2].Instrument, mkt)
	require.NoError(t, err)
	assert.Equal(t, want, results[2].NPV)

	assert.ErrorIs(t, results[3].Err, pricing.ErrNoPricer)
}

func TestPriceBatch_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mkt := usdMarket(t)
	jobs := []pricing.Job{
		{Instrument: instruments.ZeroCouponBond{Curve: "USD_DISC", Maturity: 1, Notional: 1}, Market: mkt},
		{Instrument: instruments.ZeroCouponBond{Curve: "USD_DISC", Maturity: 2, Notional: 1}, Market: mkt},
	}
	results, err := pricing.PriceBatch(ctx, pricing.NewDefaultEngine(), jobs, 0)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.NotEmpty(t, r.ID)
	}
}

func TestPriceBatch_Empty(t *testing.T) {
	t.Parallel()

	results, err := pricing.PriceBatch(context.Background(), pricing.NewDefaultEngine(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}
