package marketdata_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genarionogueira/val-risk-platform/marketdata"
)

// fakeStreams keeps entries per stream key, newest last.
type fakeStreams struct {
	entries map[string][]redis.XMessage
	added   []*redis.XAddArgs
	err     error
}

func (f *fakeStreams) XRevRangeN(_ context.Context, stream, _, _ string, count int64) *redis.XMessageSliceCmd {
	if f.err != nil {
		return redis.NewXMessageSliceCmdResult(nil, f.err)
	}
	msgs := f.entries[stream]
	var out []redis.XMessage
	for i := len(msgs) - 1; i >= 0 && int64(len(out)) < count; i-- {
		out = append(out, msgs[i])
	}
	return redis.NewXMessageSliceCmdResult(out, nil)
}

func (f *fakeStreams) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", f.err)
}

func TestStreamSource_Latest(t *testing.T) {
	t.Parallel()

	older, err := marketdata.EncodePayload(marketdata.SampleUSD)
	require.NoError(t, err)
	moved := marketdata.SampleUSD
	moved.ZeroRatesCC = []float64{0.046, 0.043, 0.040, 0.038, 0.037}
	newer, err := marketdata.EncodePayload(moved)
	require.NoError(t, err)

	fake := &fakeStreams{entries: map[string][]redis.XMessage{
		"curve_updates:USD_DISC": {
			{ID: "1-0", Values: map[string]interface{}{"payload": older}},
			{ID: "2-0", Values: map[string]interface{}{"payload": newer}},
		},
		"curve_updates:BROKEN": {
			{ID: "3-0", Values: map[string]interface{}{"other": "x"}},
		},
	}}
	src := marketdata.NewStreamSource(fake, "")

	c, id, err := src.Latest(context.Background(), "USD_DISC")
	require.NoError(t, err)
	assert.Equal(t, "2-0", id)
	assert.Equal(t, moved, c)

	_, _, err = src.Latest(context.Background(), "EUR_DISC")
	require.ErrorIs(t, err, marketdata.ErrNoUpdate)

	_, _, err = src.Latest(context.Background(), "BROKEN")
	require.ErrorIs(t, err, marketdata.ErrInvalidPayload)

	fake.err = errors.New("connection refused")
	_, _, err = src.Latest(context.Background(), "USD_DISC")
	require.Error(t, err)
	assert.NotErrorIs(t, err, marketdata.ErrNoUpdate)
}

func TestStreamSource_Publish(t *testing.T) {
	t.Parallel()

	fake := &fakeStreams{}
	src := marketdata.NewStreamSource(fake, "md:")

	id, err := src.Publish(context.Background(), marketdata.SampleUSD)
	require.NoError(t, err)
	assert.Equal(t, "1-0", id)
	require.Len(t, fake.added, 1)
	assert.Equal(t, "md:USD_DISC", fake.added[0].Stream)

	values := fake.added[0].Values.(map[string]interface{})
	c, err := marketdata.DecodePayload(values["payload"].(string))
	require.NoError(t, err)
	assert.Equal(t, marketdata.SampleUSD, c)
}

func TestStreamSource_Refresh(t *testing.T) {
	t.Parallel()

	moved := marketdata.SampleUSD
	moved.ZeroRatesCC = []float64{0.045, 0.044, 0.040, 0.038, 0.037}
	payload, err := marketdata.EncodePayload(moved)
	require.NoError(t, err)

	fake := &fakeStreams{entries: map[string][]redis.XMessage{
		"curve_updates:USD_DISC": {{ID: "7-0", Values: map[string]interface{}{"payload": payload}}},
	}}
	src := marketdata.NewStreamSource(fake, "")

	in := marketdata.SampleMarket()
	in.Curves = append(in.Curves, marketdata.CurveInput{Name: "EUR_DISC", Pillars: []float64{1}, ZeroRatesCC: []float64{0.03}})

	out, updates, err := src.Refresh(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "7-0", updates[0].ID)
	require.NotNil(t, updates[0].RateDeltasBP[1])
	assert.InDelta(t, 10.0, *updates[0].RateDeltasBP[1], 1e-8)

	require.Len(t, out.Curves, 2)
	assert.Equal(t, moved.ZeroRatesCC, out.Curves[0].ZeroRatesCC)
	assert.Equal(t, []float64{0.03}, out.Curves[1].ZeroRatesCC)
	assert.Equal(t, 0.043, in.Curves[0].ZeroRatesCC[1])
}

// Runs against a live server when REDIS_ADDR is set.
func TestStreamSource_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := marketdata.NewRedisClient(addr, "", 0)
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	src := marketdata.NewStreamSource(rdb, "test_curve_updates:")
	defer rdb.Del(ctx, src.Key(marketdata.SampleUSD.Name))

	id, err := src.Publish(ctx, marketdata.SampleUSD)
	require.NoError(t, err)

	c, gotID, err := src.Latest(ctx, marketdata.SampleUSD.Name)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, marketdata.SampleUSD, c)
}
