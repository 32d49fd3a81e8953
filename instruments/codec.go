package instruments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned by Decode for an unrecognised instrument type.
var ErrUnknownType = errors.New("unknown instrument type")

var aliases = map[string]string{
	"bond":             TypeZeroCouponBond,
	"zerocouponbond":   TypeZeroCouponBond,
	"zcb":              TypeZeroCouponBond,
	"swap":             TypeFixedFloatSwap,
	"fixedfloatswap":   TypeFixedFloatSwap,
	"irs":              TypeFixedFloatSwap,
	"fx":               TypeFXForward,
	"fxforward":        TypeFXForward,
	"mortgage":         TypeLevelPayMortgage,
	"levelpaymortgage": TypeLevelPayMortgage,
	"cds":              TypeCDS,
}

// CanonicalType maps a type name or short alias ("bond", "swap", "fx", "mortgage", "cds")
// to the InstrumentType value, case-insensitively.
func CanonicalType(kind string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(kind))
	k = strings.NewReplacer("_", "", "-", "").Replace(k)
	t, ok := aliases[k]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownType, kind)
	}
	return t, nil
}

// Decode parses a JSON instrument of the given kind. Unknown fields are rejected.
func Decode(kind string, data []byte) (Instrument, error) {
	t, err := CanonicalType(kind)
	if err != nil {
		return nil, err
	}
	switch t {
	case TypeZeroCouponBond:
		return decodeAs[ZeroCouponBond](data)
	case TypeFixedFloatSwap:
		return decodeAs[FixedFloatSwap](data)
	case TypeFXForward:
		return decodeAs[FXForward](data)
	case TypeLevelPayMortgage:
		return decodeAs[LevelPayMortgage](data)
	default:
		return decodeAs[CDS](data)
	}
}

func decodeAs[T Instrument](data []byte) (Instrument, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", v.InstrumentType(), err)
	}
	return v, nil
}
