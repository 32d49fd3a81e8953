package instruments

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyPayTimes      = errors.New("pay_times must not be empty")
	ErrPayTimesUnordered  = errors.New("pay_times must be ordered")
	ErrNegativeTime       = errors.New("time must be >= 0")
	ErrNonPositiveTerm    = errors.New("term_years and payments_per_year must be positive")
	ErrRecoveryOutOfRange = errors.New("recovery must be in [0, 1]")
	ErrMissingName        = errors.New("curve or pair name is required")
)

// ValidationError reports a malformed instrument field.
type ValidationError struct {
	Instrument string
	Field      string
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Instrument, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(inst Instrument, field string, err error) error {
	return &ValidationError{Instrument: inst.InstrumentType(), Field: field, Err: err}
}

func checkName(inst Instrument, field, name string) error {
	if name == "" {
		return invalid(inst, field, ErrMissingName)
	}
	return nil
}

func checkPayTimes(inst Instrument, payTimes []float64) error {
	if len(payTimes) == 0 {
		return invalid(inst, "pay_times", ErrEmptyPayTimes)
	}
	for i, t := range payTimes {
		if t < 0 {
			return invalid(inst, "pay_times", fmt.Errorf("%w (pay_times[%d] = %g)", ErrNegativeTime, i, t))
		}
		if i > 0 && t < payTimes[i-1] {
			return invalid(inst, "pay_times", ErrPayTimesUnordered)
		}
	}
	return nil
}

// Validate checks the bond terms.
func (b ZeroCouponBond) Validate() error {
	if err := checkName(b, "curve", b.Curve); err != nil {
		return err
	}
	if b.Maturity < 0 {
		return invalid(b, "maturity", ErrNegativeTime)
	}
	return nil
}

// Validate checks the swap terms.
func (s FixedFloatSwap) Validate() error {
	if err := checkName(s, "curve", s.Curve); err != nil {
		return err
	}
	if s.T0 < 0 {
		return invalid(s, "t0", ErrNegativeTime)
	}
	return checkPayTimes(s, s.PayTimes)
}

// Validate checks the forward terms.
func (f FXForward) Validate() error {
	for _, n := range []struct{ field, name string }{
		{"pair", f.Pair},
		{"base_curve", f.BaseCurve},
		{"quote_curve", f.QuoteCurve},
	} {
		if err := checkName(f, n.field, n.name); err != nil {
			return err
		}
	}
	if f.Maturity < 0 {
		return invalid(f, "maturity", ErrNegativeTime)
	}
	return nil
}

// Validate checks the mortgage terms.
func (m LevelPayMortgage) Validate() error {
	if err := checkName(m, "curve", m.Curve); err != nil {
		return err
	}
	if m.TermYears <= 0 || m.PaymentsPerYear <= 0 {
		return invalid(m, "term_years", ErrNonPositiveTerm)
	}
	if int(m.TermYears*float64(m.PaymentsPerYear)) < 1 {
		return invalid(m, "term_years", fmt.Errorf("%w: schedule has no payments", ErrNonPositiveTerm))
	}
	return nil
}

// Validate checks the CDS terms.
func (c CDS) Validate() error {
	if err := checkName(c, "discount_curve", c.DiscountCurve); err != nil {
		return err
	}
	if err := checkName(c, "survival_curve", c.SurvivalCurve); err != nil {
		return err
	}
	if c.Recovery < 0 || c.Recovery > 1 {
		return invalid(c, "recovery", ErrRecoveryOutOfRange)
	}
	if c.T0 < 0 {
		return invalid(c, "t0", ErrNegativeTime)
	}
	return checkPayTimes(c, c.PayTimes)
}

// UnmarshalJSON applies the NewCDS defaults to fields missing from the document.
func (c *CDS) UnmarshalJSON(data []byte) error {
	type plain CDS
	out := plain{Recovery: DefaultRecovery, ProtectionBuyer: true}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = CDS(out)
	return nil
}

// UnmarshalYAML applies the NewCDS defaults to fields missing from the document.
func (c *CDS) UnmarshalYAML(value *yaml.Node) error {
	type plain CDS
	out := plain{Recovery: DefaultRecovery, ProtectionBuyer: true}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*c = CDS(out)
	return nil
}
