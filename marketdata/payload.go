package marketdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPayload is returned for a stream entry that is not a curve document.
var ErrInvalidPayload = errors.New("invalid curve payload")

// EncodePayload renders c as the JSON document stored in the "payload" field of a stream entry.
func EncodePayload(c CurveInput) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("EncodePayload: %w", err)
	}
	return string(b), nil
}

// DecodePayload parses a stream payload. name, pillars and zero_rates_cc are required;
// t0 defaults to zero.
func DecodePayload(payload string) (CurveInput, error) {
	var raw struct {
		Name        *string    `json:"name"`
		Pillars     *[]float64 `json:"pillars"`
		ZeroRatesCC *[]float64 `json:"zero_rates_cc"`
		T0          float64    `json:"t0"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return CurveInput{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if raw.Name == nil || raw.Pillars == nil || raw.ZeroRatesCC == nil {
		return CurveInput{}, fmt.Errorf("%w: name, pillars and zero_rates_cc are required", ErrInvalidPayload)
	}
	return CurveInput{
		Name:        *raw.Name,
		Pillars:     *raw.Pillars,
		ZeroRatesCC: *raw.ZeroRatesCC,
		T0:          raw.T0,
	}, nil
}

// unchangedEps is the smallest rate move reported as a change.
const unchangedEps = 1e-12

// CurveUpdate is a curve snapshot plus the per-pillar moves since the previous one.
// Delta entries are nil for tenors that did not move.
type CurveUpdate struct {
	ID           string     `json:"id,omitempty"`
	Curve        CurveInput `json:"curve"`
	RateDeltasCC []*float64 `json:"rate_deltas_cc"`
	RateDeltasBP []*float64 `json:"rate_deltas_bp"`
}

// Diff compares next against prev pillar by pillar. Missing rates count as zero,
// so a prev with no rates reports every non-zero rate of next as a move.
func Diff(prev, next CurveInput) CurveUpdate {
	n := len(next.ZeroRatesCC)
	if len(prev.ZeroRatesCC) > n {
		n = len(prev.ZeroRatesCC)
	}
	u := CurveUpdate{
		Curve:        next,
		RateDeltasCC: make([]*float64, n),
		RateDeltasBP: make([]*float64, n),
	}
	for i := 0; i < n; i++ {
		d := rateAt(next.ZeroRatesCC, i) - rateAt(prev.ZeroRatesCC, i)
		if math.Abs(d) < unchangedEps {
			continue
		}
		cc, bp := d, d*10000.0
		u.RateDeltasCC[i] = &cc
		u.RateDeltasBP[i] = &bp
	}
	return u
}

func rateAt(rates []float64, i int) float64 {
	if i < len(rates) {
		return rates[i]
	}
	return 0
}
