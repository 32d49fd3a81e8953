package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bondRequest = `{
  "bond": {"curve": "USD_DISC", "maturity": 2, "notional": 1000000},
  "market": {"curves": [{"name": "USD_DISC", "pillars": [0.5, 1, 2, 5, 10], "zero_rates_cc": [0.045, 0.043, 0.040, 0.038, 0.037]}]},
  "calculate_pv01": true
}`

type result struct {
	NPV          float64 `json:"npv"`
	RiskMeasures *struct {
		PV01    *float64 `json:"pv01"`
		FXDelta *float64 `json:"fx_delta"`
		CS01    *float64 `json:"cs01"`
	} `json:"risk_measures"`
	Error string `json:"error"`
}

func runWith(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runWith(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: price <command>")

	code, stdout, _ := runWith(t, "", "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "demo")

	code, _, stderr = runWith(t, "", "swaption")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "swaption"`)

	code, _, stderr = runWith(t, "", "bond", "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "price bond -input")
}

func TestRun_Bond(t *testing.T) {
	for _, cmd := range []string{"bond", "ZeroCouponBond", "zcb"} {
		code, stdout, _ := runWith(t, bondRequest, cmd)
		require.Equal(t, 0, code, stdout)

		var res result
		require.NoError(t, json.Unmarshal([]byte(stdout), &res))
		assert.Equal(t, 923116.35, res.NPV)
		require.NotNil(t, res.RiskMeasures)
		require.NotNil(t, res.RiskMeasures.PV01)
		assert.InDelta(t, -184.60, *res.RiskMeasures.PV01, 0.011)
		assert.Nil(t, res.RiskMeasures.CS01)
	}
}

func TestRun_BondTable(t *testing.T) {
	code, stdout, _ := runWith(t, bondRequest, "bond", "-table")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "ZERO-COUPON BOND")
	assert.Contains(t, stdout, "923,116.35")
	assert.Contains(t, stdout, "PV01")
}

func TestRun_InputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bond.json")
	require.NoError(t, os.WriteFile(path, []byte(bondRequest), 0o600))

	code, stdout, _ := runWith(t, "", "bond", "-input", path)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `"npv":923116.35`)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cmd   string
		input string
		want  string
	}{
		{"malformed JSON", "bond", `{"bond":`, "failed to parse JSON input"},
		{"unknown field", "bond", `{"bond":{"curve":"USD_DISC","maturity":1,"notional":1},"coupon":0.05}`, "unknown field"},
		{"empty market", "bond", `{"bond":{"curve":"USD_DISC","maturity":1,"notional":1},"market":{"curves":[]}}`, "market.curves must not be empty"},
		{"missing curve", "bond", strings.Replace(bondRequest, `"curve": "USD_DISC"`, `"curve": "EUR_DISC"`, 1), "Available curves: [USD_DISC]"},
		{"mortgage term", "mortgage", `{"mortgage":{"curve":"USD_DISC","notional":1,"annual_rate":0.05,"term_years":0,"payments_per_year":12},"market":{"curves":[{"name":"USD_DISC","pillars":[1],"zero_rates_cc":[0.04]}]}}`, "term_years"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runWith(t, tt.input, tt.cmd)
			assert.Equal(t, 1, code)
			var res result
			require.NoError(t, json.Unmarshal([]byte(stdout), &res))
			assert.Contains(t, res.Error, tt.want)
		})
	}
}

func TestRun_CDS(t *testing.T) {
	input := `{
	  "cds": {"discount_curve": "USD_DISC", "survival_curve": "CORP_HAZ", "notional": 10000000, "premium_rate": 0.01, "pay_times": [1, 2, 3]},
	  "market": {
	    "curves": [{"name": "USD_DISC", "pillars": [1, 5], "zero_rates_cc": [0.04, 0.04]}],
	    "hazard_curves": [{"name": "CORP_HAZ", "pillars": [1, 5], "hazard_rates": [0.02, 0.02]}]
	  },
	  "calculate_cs01": true
	}`
	code, stdout, _ := runWith(t, input, "cds")
	require.Equal(t, 0, code, stdout)

	var res result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.NotNil(t, res.RiskMeasures)
	require.NotNil(t, res.RiskMeasures.CS01)
	assert.Greater(t, *res.RiskMeasures.CS01, 0.0)
}

func TestRun_Batch(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "market.yaml")
	require.NoError(t, os.WriteFile(snapshot, []byte(`
curves:
  - name: USD_DISC
    pillars: [0.5, 1, 2, 5, 10]
    zero_rates_cc: [0.045, 0.043, 0.040, 0.038, 0.037]
`), 0o600))

	trades := `{"trades": [
	  {"id": "a", "type": "bond", "instrument": {"curve": "USD_DISC", "maturity": 2, "notional": 1000000}},
	  {"id": "b", "type": "swap", "instrument": {"curve": "USD_DISC", "notional": 1000000, "fixed_rate": 0.04, "pay_times": []}},
	  {"id": "c", "type": "mortgage", "instrument": {"curve": "USD_DISC", "notional": 100000, "annual_rate": 0.05, "term_years": 5, "payments_per_year": 12}}
	]}`
	code, stdout, _ := runWith(t, trades, "batch", "-market", snapshot, "-workers", "2")
	require.Equal(t, 0, code, stdout)

	var out struct {
		Results []struct {
			ID    string   `json:"id"`
			NPV   *float64 `json:"npv"`
			Error string   `json:"error"`
		} `json:"results"`
		Priced int `json:"priced"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 2, out.Priced)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Results, 3)
	assert.Equal(t, 923116.35, *out.Results[0].NPV)
	assert.Contains(t, out.Results[1].Error, "pay_times")

	code, stdout, _ = runWith(t, trades, "batch", "-market", snapshot, "-table")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "BATCH VALUATION")
	assert.Contains(t, stdout, "2 priced, 1 failed")
}

func TestRun_Demo(t *testing.T) {
	code, stdout, _ := runWith(t, "", "demo", "-json")
	require.Equal(t, 0, code, stdout)

	var lines []struct {
		Trade  string `json:"trade"`
		Type   string `json:"type"`
		Result result `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &lines))
	require.Len(t, lines, 5)
	assert.Equal(t, 923116.35, lines[0].Result.NPV)

	code, stdout, _ = runWith(t, "", "demo")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "VALUATION")
	assert.Contains(t, stdout, "CORP_HAZ (hazard)")
}

func TestRun_CurvesUsage(t *testing.T) {
	code, _, stderr := runWith(t, "", "curves")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "publish|diff")

	code, _, stderr = runWith(t, "", "curves", "drop")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown curves action "drop"`)
}
