package marketdata_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genarionogueira/val-risk-platform/marketdata"
)

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	// Entry as written by the market-data feed.
	payload := `{"name": "USD_DISC", "pillars": [0.5, 1.0, 2.0, 5.0, 10.0], "zero_rates_cc": [0.045, 0.043, 0.04, 0.038, 0.037], "t0": 0.0}`
	c, err := marketdata.DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, marketdata.SampleUSD, c)

	encoded, err := marketdata.EncodePayload(c)
	require.NoError(t, err)
	again, err := marketdata.DecodePayload(encoded)
	require.NoError(t, err)
	assert.Equal(t, c, again)

	c, err = marketdata.DecodePayload(`{"name":"X","pillars":[1],"zero_rates_cc":[0.01]}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.T0)
}

func TestDecodePayload_Invalid(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{
		`not json`,
		`{"name":"X","pillars":[1]}`,
		`{"pillars":[1],"zero_rates_cc":[0.01]}`,
		`{"name":"X","pillars":"1","zero_rates_cc":[0.01]}`,
	} {
		_, err := marketdata.DecodePayload(payload)
		assert.ErrorIs(t, err, marketdata.ErrInvalidPayload, payload)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	prev := marketdata.SampleUSD
	next := marketdata.SampleUSD
	next.ZeroRatesCC = []float64{0.0451, 0.043, 0.0399, 0.038, 0.037}

	u := marketdata.Diff(prev, next)
	require.Len(t, u.RateDeltasCC, 5)
	require.NotNil(t, u.RateDeltasCC[0])
	assert.InDelta(t, 0.0001, *u.RateDeltasCC[0], 1e-12)
	assert.InDelta(t, 1.0, *u.RateDeltasBP[0], 1e-8)
	assert.Nil(t, u.RateDeltasCC[1])
	assert.Nil(t, u.RateDeltasBP[1])
	assert.InDelta(t, -1.0, *u.RateDeltasBP[2], 1e-8)
	assert.Equal(t, next, u.Curve)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"rate_deltas_bp":[`)
	assert.Contains(t, string(b), `null`)
}

func TestDiff_FirstAndResized(t *testing.T) {
	t.Parallel()

	first := marketdata.Diff(marketdata.CurveInput{}, marketdata.SampleUSD)
	require.Len(t, first.RateDeltasCC, 5)
	for i, r := range marketdata.SampleUSD.ZeroRatesCC {
		require.NotNil(t, first.RateDeltasCC[i])
		require.NotNil(t, first.RateDeltasBP[i])
		assert.InDelta(t, r, *first.RateDeltasCC[i], 1e-15)
		assert.InDelta(t, r*1e4, *first.RateDeltasBP[i], 1e-9)
	}

	shorter := marketdata.CurveInput{Name: "USD_DISC", Pillars: []float64{0.5}, ZeroRatesCC: []float64{0.045}}
	u := marketdata.Diff(marketdata.SampleUSD, shorter)
	require.Len(t, u.RateDeltasCC, 5)
	assert.Nil(t, u.RateDeltasCC[0])
	require.NotNil(t, u.RateDeltasCC[4])
	assert.InDelta(t, -0.037, *u.RateDeltasCC[4], 1e-15)
}
