package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/logger"
	"github.com/genarionogueira/val-risk-platform/market"
	"github.com/genarionogueira/val-risk-platform/marketdata"
	"github.com/genarionogueira/val-risk-platform/pricing"
	"github.com/genarionogueira/val-risk-platform/risk"
)

// InputError is a user-facing rejection of a request. Err, when set, is the underlying cause.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func inputErr(err error, format string, args ...interface{}) error {
	return &InputError{Message: fmt.Sprintf(format, args...), Err: err}
}

// RiskMeasures holds the sensitivities that were requested; the rest stay nil.
type RiskMeasures struct {
	PV01    *float64 `json:"pv01"`
	FXDelta *float64 `json:"fx_delta"`
	CS01    *float64 `json:"cs01"`
}

// PricingResult is the NPV plus any requested risk. RiskMeasures is nil when none was asked for.
type PricingResult struct {
	NPV          float64       `json:"npv"`
	RiskMeasures *RiskMeasures `json:"risk_measures"`
}

// PV01Options requests a parallel PV01.
type PV01Options struct {
	CalculatePV01 bool    `json:"calculate_pv01,omitempty"`
	PV01CurveName string  `json:"pv01_curve_name,omitempty"`
	PV01BumpBP    float64 `json:"pv01_bump_bp,omitempty"`
}

type BondRequest struct {
	Bond   instruments.ZeroCouponBond `json:"bond"`
	Market marketdata.MarketInput     `json:"market"`
	PV01Options
}

type SwapRequest struct {
	Swap   instruments.FixedFloatSwap `json:"swap"`
	Market marketdata.MarketInput     `json:"market"`
	PV01Options
}

type FXForwardRequest struct {
	Forward instruments.FXForward  `json:"forward"`
	Market  marketdata.MarketInput `json:"market"`
	PV01Options
	CalculateFXDelta bool    `json:"calculate_fx_delta,omitempty"`
	FXDeltaPair      string  `json:"fx_delta_pair,omitempty"`
	FXDeltaBumpPct   float64 `json:"fx_delta_bump_pct,omitempty"`
}

type MortgageRequest struct {
	Mortgage instruments.LevelPayMortgage `json:"mortgage"`
	Market   marketdata.MarketInput       `json:"market"`
	PV01Options
}

type CDSRequest struct {
	CDS                 instruments.CDS        `json:"cds"`
	Market              marketdata.MarketInput `json:"market"`
	CalculateCS01       bool                   `json:"calculate_cs01,omitempty"`
	CS01HazardCurveName string                 `json:"cs01_hazard_curve_name,omitempty"`
	CS01BumpBP          float64                `json:"cs01_bump_bp,omitempty"`
}

// Service turns validated requests into pricing results.
type Service struct {
	engine   *pricing.Engine
	recorder risk.Recorder
	log      *logger.Entry
}

// New returns a Service on engine (the default engine when nil). recorder may be nil.
func New(engine *pricing.Engine, recorder risk.Recorder) *Service {
	if engine == nil {
		engine = pricing.DefaultEngine()
	}
	return &Service{
		engine:   engine,
		recorder: recorder,
		log:      logger.GetLogger().WithComponent("service"),
	}
}

var defaultService = New(nil, nil)

func PriceZeroCouponBond(req BondRequest) (PricingResult, error) {
	return defaultService.PriceZeroCouponBond(req)
}

func PriceSwap(req SwapRequest) (PricingResult, error) {
	return defaultService.PriceSwap(req)
}

func PriceFXForward(req FXForwardRequest) (PricingResult, error) {
	return defaultService.PriceFXForward(req)
}

func PriceMortgage(req MortgageRequest) (PricingResult, error) {
	return defaultService.PriceMortgage(req)
}

func PriceCDS(req CDSRequest) (PricingResult, error) {
	return defaultService.PriceCDS(req)
}

// PriceZeroCouponBond prices a bond with optional PV01 on its own curve by default.
func (s *Service) PriceZeroCouponBond(req BondRequest) (PricingResult, error) {
	mkt, err := s.prepare(req.Bond, req.Market)
	if err != nil {
		return PricingResult{}, err
	}
	if err := requireCurve(mkt, req.Bond.Curve, "ZeroCouponBond"); err != nil {
		return PricingResult{}, err
	}
	return s.priceWithPV01(req.Bond, mkt, req.PV01Options, req.Bond.Curve)
}

// PriceSwap prices a receive-float swap with optional PV01.
func (s *Service) PriceSwap(req SwapRequest) (PricingResult, error) {
	mkt, err := s.prepare(req.Swap, req.Market)
	if err != nil {
		return PricingResult{}, err
	}
	if err := requireCurve(mkt, req.Swap.Curve, "FixedFloatSwap"); err != nil {
		return PricingResult{}, err
	}
	return s.priceWithPV01(req.Swap, mkt, req.PV01Options, req.Swap.Curve)
}

// PriceMortgage prices a level-pay mortgage with optional PV01.
func (s *Service) PriceMortgage(req MortgageRequest) (PricingResult, error) {
	mkt, err := s.prepare(req.Mortgage, req.Market)
	if err != nil {
		return PricingResult{}, err
	}
	if err := requireCurve(mkt, req.Mortgage.Curve, "LevelPayMortgage"); err != nil {
		return PricingResult{}, err
	}
	return s.priceWithPV01(req.Mortgage, mkt, req.PV01Options, req.Mortgage.Curve)
}

// PriceFXForward prices an FX forward with optional PV01 (quote curve by default)
// and FX delta (the forward's own pair by default).
func (s *Service) PriceFXForward(req FXForwardRequest) (PricingResult, error) {
	f := req.Forward
	mkt, err := s.prepare(f, req.Market)
	if err != nil {
		return PricingResult{}, err
	}
	if err := requireCurve(mkt, f.BaseCurve, "FXForward base_curve"); err != nil {
		return PricingResult{}, err
	}
	if err := requireCurve(mkt, f.QuoteCurve, "FXForward quote_curve"); err != nil {
		return PricingResult{}, err
	}
	if err := requirePair(mkt, f.Pair, "FXForward"); err != nil {
		return PricingResult{}, err
	}

	npv, err := s.engine.NPV(f, mkt)
	if err != nil {
		return PricingResult{}, err
	}
	res := PricingResult{NPV: npv}

	var rm RiskMeasures
	if req.CalculatePV01 {
		v, err := s.pv01(f, mkt, req.PV01Options, f.QuoteCurve)
		if err != nil {
			return PricingResult{}, err
		}
		rm.PV01 = &v
	}
	if req.CalculateFXDelta {
		pair := orDefault(req.FXDeltaPair, f.Pair)
		if err := requirePair(mkt, pair, "FX delta"); err != nil {
			return PricingResult{}, err
		}
		v, err := risk.FXDelta{Pair: pair, BumpPct: req.FXDeltaBumpPct, Valuer: s.engine, Recorder: s.recorder}.Compute(f, mkt)
		if err != nil {
			return PricingResult{}, err
		}
		rm.FXDelta = &v
	}
	if rm.PV01 != nil || rm.FXDelta != nil {
		res.RiskMeasures = &rm
	}
	return res, nil
}

// PriceCDS prices a CDS with optional CS01 on its survival curve by default.
func (s *Service) PriceCDS(req CDSRequest) (PricingResult, error) {
	c := req.CDS
	mkt, err := s.prepare(c, req.Market)
	if err != nil {
		return PricingResult{}, err
	}
	if err := requireCurve(mkt, c.DiscountCurve, "CDS discount_curve"); err != nil {
		return PricingResult{}, err
	}
	if err := requireCurve(mkt, c.SurvivalCurve, "CDS survival_curve"); err != nil {
		return PricingResult{}, err
	}

	npv, err := s.engine.NPV(c, mkt)
	if err != nil {
		return PricingResult{}, err
	}
	res := PricingResult{NPV: npv}
	if req.CalculateCS01 {
		name := orDefault(req.CS01HazardCurveName, c.SurvivalCurve)
		if err := requireCurve(mkt, name, "CS01"); err != nil {
			return PricingResult{}, err
		}
		v, err := risk.CS01Parallel{HazardCurveName: name, BumpBP: req.CS01BumpBP, Valuer: s.engine, Recorder: s.recorder}.Compute(c, mkt)
		if err != nil {
			return PricingResult{}, err
		}
		res.RiskMeasures = &RiskMeasures{CS01: &v}
	}
	return res, nil
}

type validatable interface {
	instruments.Instrument
	Validate() error
}

// prepare validates the instrument and builds the market.
func (s *Service) prepare(inst validatable, in marketdata.MarketInput) (*market.Market, error) {
	if err := inst.Validate(); err != nil {
		s.log.WithError(err).WithFields(logger.Fields{"instrument": inst.InstrumentType()}).Debug("rejected instrument")
		return nil, inputErr(err, "%v", err)
	}
	mkt, err := in.Build()
	if err != nil {
		if errors.Is(err, marketdata.ErrNoCurves) {
			return nil, inputErr(err, "%v", err)
		}
		return nil, inputErr(err, "invalid market: %v", err)
	}
	return mkt, nil
}

func (s *Service) priceWithPV01(inst instruments.Instrument, mkt *market.Market, opts PV01Options, defaultCurve string) (PricingResult, error) {
	npv, err := s.engine.NPV(inst, mkt)
	if err != nil {
		return PricingResult{}, err
	}
	res := PricingResult{NPV: npv}
	if opts.CalculatePV01 {
		v, err := s.pv01(inst, mkt, opts, defaultCurve)
		if err != nil {
			return PricingResult{}, err
		}
		res.RiskMeasures = &RiskMeasures{PV01: &v}
	}
	return res, nil
}

func (s *Service) pv01(inst instruments.Instrument, mkt *market.Market, opts PV01Options, defaultCurve string) (float64, error) {
	name := orDefault(opts.PV01CurveName, defaultCurve)
	if err := requireCurve(mkt, name, "PV01"); err != nil {
		return 0, err
	}
	return risk.PV01Parallel{CurveName: name, BumpBP: opts.PV01BumpBP, Valuer: s.engine, Recorder: s.recorder}.Compute(inst, mkt)
}

func requireCurve(mkt *market.Market, name, where string) error {
	if mkt.HasCurve(name) {
		return nil
	}
	return inputErr(&market.LookupError{Kind: "curve", Name: name},
		"%s: curve '%s' not found in market. Available curves: [%s]",
		where, name, strings.Join(mkt.CurveNames(), ", "))
}

func requirePair(mkt *market.Market, pair, where string) error {
	if mkt.HasFX(pair) {
		return nil
	}
	return inputErr(&market.LookupError{Kind: "fx pair", Name: pair},
		"%s: FX pair '%s' not found in market. Available pairs: [%s]",
		where, pair, strings.Join(mkt.FXPairs(), ", "))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
