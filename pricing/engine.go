package pricing

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
)

// ErrNoPricer is returned when no registered pricer accepts an instrument.
var ErrNoPricer = errors.New("no pricer registered")

// ConfigurationError reports an engine that cannot value the given instrument type.
type ConfigurationError struct {
	InstrumentType string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v for %s; register one with Engine.Register", ErrNoPricer, e.InstrumentType)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNoPricer
}

// Pricer values one family of instruments against a market snapshot.
type Pricer interface {
	CanPrice(inst instruments.Instrument) bool
	NPV(inst instruments.Instrument, mkt *market.Market) (float64, error)
}

// Observer receives one callback per Engine.NPV call.
type Observer interface {
	ObserveValuation(instrumentType string, elapsed time.Duration, err error)
}

// Engine dispatches instruments to registered pricers, first match wins.
//
// Register pricers before the engine is shared; NPV is safe for concurrent use afterwards.
type Engine struct {
	pricers  []Pricer
	observer Observer
}

// NewEngine returns an engine without pricers.
func NewEngine() *Engine {
	return &Engine{}
}

// NewDefaultEngine returns an engine with the built-in pricers registered in order:
// bond, swap, FX forward, mortgage, CDS.
func NewDefaultEngine() *Engine {
	e := NewEngine()
	e.Register(BondPricer{})
	e.Register(SwapPricer{})
	e.Register(FXPricer{})
	e.Register(MortgagePricer{})
	e.Register(CDSPricer{})
	return e
}

// Register appends p to the dispatch list.
func (e *Engine) Register(p Pricer) {
	e.pricers = append(e.pricers, p)
}

// WithObserver returns a copy of e that reports every valuation to o.
func (e *Engine) WithObserver(o Observer) *Engine {
	return &Engine{
		pricers:  append([]Pricer(nil), e.pricers...),
		observer: o,
	}
}

// NPV values inst with the first registered pricer whose CanPrice accepts it.
func (e *Engine) NPV(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	if e.observer == nil {
		return e.npv(inst, mkt)
	}
	start := time.Now()
	v, err := e.npv(inst, mkt)
	e.observer.ObserveValuation(typeName(inst), time.Since(start), err)
	return v, err
}

func (e *Engine) npv(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	for _, p := range e.pricers {
		if p.CanPrice(inst) {
			return p.NPV(inst, mkt)
		}
	}
	return 0, &ConfigurationError{InstrumentType: typeName(inst)}
}

var defaultEngine = NewDefaultEngine()

// Price values inst with the process-wide default engine.
func Price(inst instruments.Instrument, mkt *market.Market) (float64, error) {
	return defaultEngine.NPV(inst, mkt)
}

// DefaultEngine returns the engine behind Price.
func DefaultEngine() *Engine {
	return defaultEngine
}

func typeName(inst instruments.Instrument) string {
	if inst == nil {
		return "<nil>"
	}
	if v := reflect.ValueOf(inst); v.Kind() == reflect.Pointer && v.IsNil() {
		return fmt.Sprintf("%T", inst)
	}
	return inst.InstrumentType()
}

// as extracts a T from inst, accepting both T and a non-nil *T.
func as[T any](inst instruments.Instrument) (T, bool) {
	switch v := any(inst).(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

func unsupported(pricer string, inst instruments.Instrument) error {
	return fmt.Errorf("%s: %w", pricer, &ConfigurationError{InstrumentType: typeName(inst)})
}
