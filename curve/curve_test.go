package curve_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genarionogueira/val-risk-platform/curve"
)

func mustZero(t *testing.T, pillars, rates []float64) *curve.ZeroRateCurve {
	t.Helper()
	c, err := curve.NewZeroRateCurve("C", pillars, rates, 0)
	require.NoError(t, err)
	return c
}

func TestZeroRateCC_Endpoints(t *testing.T) {
	t.Parallel()

	c := mustZero(t, []float64{0.5, 1.0, 2.0, 5.0}, []float64{0.05, 0.04, 0.035, 0.03})

	r, err := c.ZeroRateCC(0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.05, r)

	r, err = c.ZeroRateCC(5.0)
	require.NoError(t, err)
	assert.Equal(t, 0.03, r)

	// Interior pillars are hit exactly as well.
	r, err = c.ZeroRateCC(2.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.035, r, 1e-15)
}

func TestZeroRateCC_LinearMidpoint(t *testing.T) {
	t.Parallel()

	c := mustZero(t, []float64{0.0, 2.0}, []float64{0.04, 0.06})
	r, err := c.ZeroRateCC(1.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, r, 1e-12)

	c = mustZero(t, []float64{1.0, 2.0, 4.0}, []float64{0.01, 0.02, 0.06})
	r, err = c.ZeroRateCC(3.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.04, r, 1e-12)
}

func TestZeroRateCC_FlatExtrapolation(t *testing.T) {
	t.Parallel()

	c := mustZero(t, []float64{0.5, 1.0}, []float64{0.05, 0.04})
	for _, tt := range []float64{0.0, 0.25, 0.4999} {
		r, err := c.ZeroRateCC(tt)
		require.NoError(t, err)
		assert.Equal(t, 0.05, r, "t=%g", tt)
	}
	for _, tt := range []float64{1.0001, 2.0, 30.0} {
		r, err := c.ZeroRateCC(tt)
		require.NoError(t, err)
		assert.Equal(t, 0.04, r, "t=%g", tt)
	}
}

func TestZeroRateCC_DomainErrors(t *testing.T) {
	t.Parallel()

	c := mustZero(t, []float64{1.0}, []float64{0.04})
	_, err := c.ZeroRateCC(-0.1)
	require.ErrorIs(t, err, curve.ErrNegativeTime)

	_, err = c.DF(-1)
	require.ErrorIs(t, err, curve.ErrNegativeTime)

	empty := mustZero(t, nil, nil)
	_, err = empty.ZeroRateCC(1.0)
	require.ErrorIs(t, err, curve.ErrEmptyCurve)
}

func TestDF_Formula(t *testing.T) {
	t.Parallel()

	c := mustZero(t, []float64{1.0}, []float64{0.05})
	df, err := c.DF(1.0)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.05), df, 1e-12)

	c = mustZero(t, []float64{0.5, 1.0, 2.0, 5.0}, []float64{0.05, 0.04, 0.035, 0.03})
	for _, tt := range []float64{0, 0.3, 0.75, 1.5, 3.3, 7} {
		r, err := c.ZeroRateCC(tt)
		require.NoError(t, err)
		df, err := c.DF(tt)
		require.NoError(t, err)
		assert.InDelta(t, math.Exp(-r*tt), df, 1e-15, "t=%g", tt)
	}
}

func TestDF_MonotoneForPositiveRates(t *testing.T) {
	t.Parallel()

	c := mustZero(t, []float64{0.5, 1.0, 2.0, 5.0}, []float64{0.05, 0.04, 0.035, 0.03})
	times := []float64{0.1, 0.5, 1.0, 1.5, 2.0, 3.0, 5.0, 7.0}

	prev := 1.0
	for _, tt := range times {
		df, err := c.DF(tt)
		require.NoError(t, err)
		assert.Less(t, df, prev, "t=%g", tt)
		assert.Greater(t, df, 0.0)
		prev = df
	}
}

func TestZeroRateCurve_Bumped(t *testing.T) {
	t.Parallel()

	base := mustZero(t, []float64{0.5, 1.0, 2.0}, []float64{0.045, 0.043, 0.040})
	bumped := base.Bumped(0.0001).(*curve.ZeroRateCurve)

	for _, tt := range []float64{0, 0.5, 0.8, 1.0, 1.7, 2.0, 9.0} {
		r0, err := base.ZeroRateCC(tt)
		require.NoError(t, err)
		r1, err := bumped.ZeroRateCC(tt)
		require.NoError(t, err)
		assert.InDelta(t, r0+0.0001, r1, 1e-15, "t=%g", tt)
	}

	assert.Equal(t, base.Name(), bumped.Name())
	assert.Equal(t, base.Pillars(), bumped.Pillars())
	assert.Equal(t, base.T0(), bumped.T0())
	// Original rates are untouched.
	assert.Equal(t, []float64{0.045, 0.043, 0.040}, base.Rates())
}

func TestNewZeroRateCurve_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		pillars []float64
		rates   []float64
		want    error
	}{
		{"repeated pillar", []float64{1.0, 1.0}, []float64{0.04, 0.04}, curve.ErrPillarsNotIncreasing},
		{"decreasing pillars", []float64{2.0, 1.0}, []float64{0.04, 0.04}, curve.ErrPillarsNotIncreasing},
		{"length mismatch", []float64{1.0, 2.0}, []float64{0.04}, curve.ErrLengthMismatch},
		{"negative pillar", []float64{-1.0, 2.0}, []float64{0.04, 0.04}, curve.ErrNegativePillar},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := curve.NewZeroRateCurve("C", tc.pillars, tc.rates, 0)
			require.ErrorIs(t, err, tc.want)

			var verr *curve.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "C", verr.Curve)

			_, err = curve.NewHazardRateCurve("H", tc.pillars, tc.rates, 0)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewZeroRateCurve_CopiesInputs(t *testing.T) {
	t.Parallel()

	pillars := []float64{1.0, 2.0}
	rates := []float64{0.04, 0.05}
	c := mustZero(t, pillars, rates)

	rates[0] = 0.99
	pillars[1] = 50

	r, err := c.ZeroRateCC(1.0)
	require.NoError(t, err)
	assert.Equal(t, 0.04, r)
	assert.Equal(t, []float64{1.0, 2.0}, c.Pillars())
}
