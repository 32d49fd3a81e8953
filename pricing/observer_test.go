package pricing_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/logger"
	"github.com/genarionogueira/val-risk-platform/pricing"
)

func TestLogObserver(t *testing.T) {
	t.Parallel()

	l := logger.Logger()
	l.SetLevel(logrus.DebugLevel)
	var buf bytes.Buffer
	l.SetOutput(&buf)

	rec := &recordingObserver{}
	e := pricing.NewDefaultEngine().WithObserver(pricing.Observers{
		pricing.LogObserver{Log: l.WithComponent("engine")},
		rec,
	})

	mkt := usdMarket(t)
	_, err := e.NPV(instruments.ZeroCouponBond{Curve: "USD_DISC", Maturity: 1, Notional: 1}, mkt)
	require.NoError(t, err)
	_, err = e.NPV(instruments.ZeroCouponBond{Curve: "GBP_DISC", Maturity: 1, Notional: 1}, mkt)
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "debug", first["level"])
	assert.Equal(t, "engine", first["component"])
	assert.Equal(t, instruments.TypeZeroCouponBond, first["instrument"])
	assert.Equal(t, "warning", second["level"])
	assert.Contains(t, second["error"], "GBP_DISC")

	assert.Len(t, rec.types, 2)
}
