package risk

import (
	"fmt"

	"github.com/genarionogueira/val-risk-platform/config"
	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
	"github.com/genarionogueira/val-risk-platform/pricing"
)

// Valuer reprices an instrument; *pricing.Engine satisfies it.
type Valuer interface {
	NPV(inst instruments.Instrument, mkt *market.Market) (float64, error)
}

// Measure is a bump-and-reprice sensitivity.
type Measure interface {
	Name() string
	Compute(inst instruments.Instrument, mkt *market.Market) (float64, error)
}

// Recorder is told about each successful computation, by measure family ("PV01", "CS01", "FXDelta").
// *metrics.Collector satisfies it.
type Recorder interface {
	RecordRisk(measure string)
}

// PV01Parallel is PV(curve + BumpBP) - PV(base) for an additive parallel shift of the curve rates.
type PV01Parallel struct {
	CurveName string
	// BumpBP defaults to config.GetConfig().BumpBP when zero.
	BumpBP float64
	// Valuer defaults to the package-level pricing engine when nil.
	Valuer   Valuer
	Recorder Recorder
}

func (m PV01Parallel) Name() string { return "PV01_" + m.CurveName }

func (m PV01Parallel) Compute(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	v, err := curveShift(valuer(m.Valuer), inst, mkt, m.CurveName, bumpBP(m.BumpBP))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", m.Name(), err)
	}
	record(m.Recorder, "PV01")
	return v, nil
}

// CS01Parallel is PV(hazard + BumpBP) - PV(base). It is positive for protection buyers.
type CS01Parallel struct {
	HazardCurveName string
	// BumpBP defaults to config.GetConfig().BumpBP when zero.
	BumpBP   float64
	Valuer   Valuer
	Recorder Recorder
}

func (m CS01Parallel) Name() string { return "CS01_" + m.HazardCurveName }

func (m CS01Parallel) Compute(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	v, err := curveShift(valuer(m.Valuer), inst, mkt, m.HazardCurveName, bumpBP(m.BumpBP))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", m.Name(), err)
	}
	record(m.Recorder, "CS01")
	return v, nil
}

// FXDelta is (PV(spot*(1+BumpPct)) - PV(spot)) / (spot*BumpPct), in base currency units.
type FXDelta struct {
	Pair string
	// BumpPct defaults to config.GetConfig().FXBumpPct when zero.
	BumpPct  float64
	Valuer   Valuer
	Recorder Recorder
}

func (m FXDelta) Name() string { return "FXDelta_" + m.Pair }

func (m FXDelta) Compute(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	pct := m.BumpPct
	if pct == 0 {
		pct = config.GetConfig().FXBumpPct
	}
	spot, err := mkt.FX(m.Pair)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", m.Name(), err)
	}
	bumped := spot * (1.0 + pct)
	if bumped == spot {
		return 0, fmt.Errorf("%s: spot bump of %g on %g is zero", m.Name(), pct, spot)
	}

	v := valuer(m.Valuer)
	base, err := v.NPV(inst, mkt)
	if err != nil {
		return 0, fmt.Errorf("%s: base: %w", m.Name(), err)
	}
	up, err := v.NPV(inst, mkt.WithFX(m.Pair, bumped))
	if err != nil {
		return 0, fmt.Errorf("%s: bumped: %w", m.Name(), err)
	}
	record(m.Recorder, "FXDelta")
	return (up - base) / (bumped - spot), nil
}

// PV01 computes PV01Parallel on the default engine. bumpBP of zero uses the configured default.
func PV01(inst instruments.Instrument, mkt *market.Market, curveName string, bumpBP float64) (float64, error) {
	return PV01Parallel{CurveName: curveName, BumpBP: bumpBP}.Compute(inst, mkt)
}

// CS01 computes CS01Parallel on the default engine.
func CS01(inst instruments.Instrument, mkt *market.Market, hazardCurveName string, bumpBP float64) (float64, error) {
	return CS01Parallel{HazardCurveName: hazardCurveName, BumpBP: bumpBP}.Compute(inst, mkt)
}

// FXDeltaOf computes FXDelta on the default engine.
func FXDeltaOf(inst instruments.Instrument, mkt *market.Market, pair string, bumpPct float64) (float64, error) {
	return FXDelta{Pair: pair, BumpPct: bumpPct}.Compute(inst, mkt)
}

func curveShift(v Valuer, inst instruments.Instrument, mkt *market.Market, name string, bp float64) (float64, error) {
	c, err := mkt.Curve(name)
	if err != nil {
		return 0, err
	}
	bumpedMkt := mkt.WithCurve(name, c.Bumped(bp/10000.0))

	base, err := v.NPV(inst, mkt)
	if err != nil {
		return 0, fmt.Errorf("base: %w", err)
	}
	up, err := v.NPV(inst, bumpedMkt)
	if err != nil {
		return 0, fmt.Errorf("bumped: %w", err)
	}
	return up - base, nil
}

func valuer(v Valuer) Valuer {
	if v == nil {
		return pricing.DefaultEngine()
	}
	return v
}

func bumpBP(bp float64) float64 {
	if bp == 0 {
		return config.GetConfig().BumpBP
	}
	return bp
}

func record(r Recorder, measure string) {
	if r != nil {
		r.RecordRisk(measure)
	}
}
