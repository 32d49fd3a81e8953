package market

import (
	"errors"
	"fmt"
	"sort"

	"github.com/genarionogueira/val-risk-platform/curve"
)

// ErrNotFound is returned when a curve or FX pair is absent from a snapshot.
var ErrNotFound = errors.New("not found in market")

// LookupError names the missing market input.
type LookupError struct {
	Kind string // "curve" or "fx pair"
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q %v", e.Kind, e.Name, ErrNotFound)
}

func (e *LookupError) Unwrap() error {
	return ErrNotFound
}

// Market is an immutable snapshot of pricing inputs: curves keyed by name
// (e.g. "USD_DISC") and FX spot rates keyed by pair (e.g. "EURUSD").
//
// WithCurve and WithFX return derived snapshots; a published Market is never mutated
// and may be shared across goroutines.
type Market struct {
	curves map[string]curve.Curve
	fxSpot map[string]float64
}

// New builds a snapshot. The maps are copied so callers keep ownership of their own.
func New(curves map[string]curve.Curve, fxSpot map[string]float64) *Market {
	m := &Market{
		curves: make(map[string]curve.Curve, len(curves)),
		fxSpot: make(map[string]float64, len(fxSpot)),
	}
	for k, v := range curves {
		m.curves[k] = v
	}
	for k, v := range fxSpot {
		m.fxSpot[k] = v
	}
	return m
}

// Curve returns the named curve.
func (m *Market) Curve(name string) (curve.Curve, error) {
	c, ok := m.curves[name]
	if !ok {
		return nil, &LookupError{Kind: "curve", Name: name}
	}
	return c, nil
}

// FX returns the spot rate for pair.
func (m *Market) FX(pair string) (float64, error) {
	s, ok := m.fxSpot[pair]
	if !ok {
		return 0, &LookupError{Kind: "fx pair", Name: pair}
	}
	return s, nil
}

// HasCurve reports whether name is present.
func (m *Market) HasCurve(name string) bool {
	_, ok := m.curves[name]
	return ok
}

// HasFX reports whether pair is present.
func (m *Market) HasFX(pair string) bool {
	_, ok := m.fxSpot[pair]
	return ok
}

// WithCurve returns a new Market with the curve added or replaced.
func (m *Market) WithCurve(name string, c curve.Curve) *Market {
	out := New(m.curves, m.fxSpot)
	out.curves[name] = c
	return out
}

// WithFX returns a new Market with the FX spot added or replaced.
func (m *Market) WithFX(pair string, spot float64) *Market {
	out := New(m.curves, m.fxSpot)
	out.fxSpot[pair] = spot
	return out
}

// CurveNames returns the curve names in sorted order.
func (m *Market) CurveNames() []string {
	names := make([]string, 0, len(m.curves))
	for k := range m.curves {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FXPairs returns the FX pairs in sorted order.
func (m *Market) FXPairs() []string {
	pairs := make([]string, 0, len(m.fxSpot))
	for k := range m.fxSpot {
		pairs = append(pairs, k)
	}
	sort.Strings(pairs)
	return pairs
}
