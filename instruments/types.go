package instruments

// Instrument is a priceable trade description.
//
// Instruments are data only: they never reference market data and never price themselves.
// Valuation lives in pricing.Pricer implementations.
type Instrument interface {
	// InstrumentType names the variant (e.g. "ZeroCouponBond") for dispatch diagnostics.
	InstrumentType() string
}

// Instrument type names of the built-in variants.
const (
	TypeZeroCouponBond   = "ZeroCouponBond"
	TypeFixedFloatSwap   = "FixedFloatSwap"
	TypeFXForward        = "FXForward"
	TypeLevelPayMortgage = "LevelPayMortgage"
	TypeCDS              = "CDS"
)

// DefaultRecovery is the recovery rate assumed by NewCDS.
const DefaultRecovery = 0.4

// ZeroCouponBond pays Notional at Maturity (year fraction).
type ZeroCouponBond struct {
	Curve    string  `json:"curve" yaml:"curve"`
	Maturity float64 `json:"maturity" yaml:"maturity"`
	Notional float64 `json:"notional" yaml:"notional"`
}

// FixedFloatSwap is a single-curve swap that receives float and pays fixed.
//
// Accruals are inferred from consecutive PayTimes, seeded by T0.
type FixedFloatSwap struct {
	Curve     string    `json:"curve" yaml:"curve"`
	Notional  float64   `json:"notional" yaml:"notional"`
	FixedRate float64   `json:"fixed_rate" yaml:"fixed_rate"`
	PayTimes  []float64 `json:"pay_times" yaml:"pay_times"`
	T0        float64   `json:"t0" yaml:"t0"`
}

// FXForward buys NotionalBase units of the base currency at Strike (quote per base).
//
// Pair is e.g. "EURUSD" (base EUR, quote USD); the value is in quote currency.
type FXForward struct {
	Pair         string  `json:"pair" yaml:"pair"`
	BaseCurve    string  `json:"base_curve" yaml:"base_curve"`
	QuoteCurve   string  `json:"quote_curve" yaml:"quote_curve"`
	Maturity     float64 `json:"maturity" yaml:"maturity"`
	NotionalBase float64 `json:"notional_base" yaml:"notional_base"`
	Strike       float64 `json:"strike" yaml:"strike"`
}

// LevelPayMortgage is a fixed-rate level-payment loan valued from the lender's side.
// No prepayment and no default.
type LevelPayMortgage struct {
	Curve           string  `json:"curve" yaml:"curve"`
	Notional        float64 `json:"notional" yaml:"notional"`
	AnnualRate      float64 `json:"annual_rate" yaml:"annual_rate"`
	TermYears       float64 `json:"term_years" yaml:"term_years"`
	PaymentsPerYear int     `json:"payments_per_year" yaml:"payments_per_year"`
}

// CDS is a single-name credit default swap.
//
// DiscountCurve supplies discount factors and SurvivalCurve (a hazard curve) supplies
// survival probabilities. Use NewCDS to get the conventional defaults
// (recovery 0.4, protection buyer).
type CDS struct {
	DiscountCurve   string    `json:"discount_curve" yaml:"discount_curve"`
	SurvivalCurve   string    `json:"survival_curve" yaml:"survival_curve"`
	Notional        float64   `json:"notional" yaml:"notional"`
	PremiumRate     float64   `json:"premium_rate" yaml:"premium_rate"`
	PayTimes        []float64 `json:"pay_times" yaml:"pay_times"`
	Recovery        float64   `json:"recovery" yaml:"recovery"`
	T0              float64   `json:"t0" yaml:"t0"`
	ProtectionBuyer bool      `json:"protection_buyer" yaml:"protection_buyer"`
}

// NewCDS returns a protection-buyer CDS with DefaultRecovery.
func NewCDS(discountCurve, survivalCurve string, notional, premiumRate float64, payTimes []float64) CDS {
	return CDS{
		DiscountCurve:   discountCurve,
		SurvivalCurve:   survivalCurve,
		Notional:        notional,
		PremiumRate:     premiumRate,
		PayTimes:        append([]float64(nil), payTimes...),
		Recovery:        DefaultRecovery,
		ProtectionBuyer: true,
	}
}

func (ZeroCouponBond) InstrumentType() string   { return TypeZeroCouponBond }
func (FixedFloatSwap) InstrumentType() string   { return TypeFixedFloatSwap }
func (FXForward) InstrumentType() string        { return TypeFXForward }
func (LevelPayMortgage) InstrumentType() string { return TypeLevelPayMortgage }
func (CDS) InstrumentType() string              { return TypeCDS }
