package marketdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SampleUSD is the USD discount curve of the sample deployment.
var SampleUSD = CurveInput{
	Name:        "USD_DISC",
	Pillars:     []float64{0.5, 1.0, 2.0, 5.0, 10.0},
	ZeroRatesCC: []float64{0.045, 0.043, 0.040, 0.038, 0.037},
}

// SampleMarket returns the sample deployment snapshot.
func SampleMarket() MarketInput {
	return MarketInput{Curves: []CurveInput{SampleUSD}}
}

// LoadSnapshot reads a MarketInput from a JSON (.json) or YAML file.
func LoadSnapshot(path string) (MarketInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MarketInput{}, fmt.Errorf("LoadSnapshot: %w", err)
	}
	in, err := ParseSnapshot(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return MarketInput{}, fmt.Errorf("LoadSnapshot: %s: %w", path, err)
	}
	return in, nil
}

// ParseSnapshot decodes a snapshot document. Unknown JSON fields are rejected.
func ParseSnapshot(data []byte, isJSON bool) (MarketInput, error) {
	var in MarketInput
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return MarketInput{}, fmt.Errorf("cannot parse JSON: %w", err)
		}
		return in, nil
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return MarketInput{}, fmt.Errorf("cannot parse YAML: %w", err)
	}
	return in, nil
}
