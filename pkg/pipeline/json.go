package pipeline

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// resultRecord is the flat serialized form consumed by presentation layers.
// Absent numeric fields serialize as explicit nulls, never omitted keys, so
// a consumer can tell "not parsed" from "zero".
type resultRecord struct {
	TestName       string       `json:"test_name"`
	RawText        string       `json:"raw_text"`
	Value          *json.Number `json:"value"`
	Unit           string       `json:"unit"`
	RangeLow       *json.Number `json:"range_low"`
	RangeHigh      *json.Number `json:"range_high"`
	Qualitative    string       `json:"qualitative,omitempty"`
	Classification string       `json:"classification"`
	Confidence     float64      `json:"confidence"`
}

func toNumber(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := json.Number(d.String())
	return &n
}

// MarshalJSON flattens the result into the stable wire record.
func (r LabResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultRecord{
		TestName:       r.TestName,
		RawText:        r.RawText,
		Value:          toNumber(r.Measurement.Value),
		Unit:           r.Measurement.Unit,
		RangeLow:       toNumber(r.Measurement.RangeLow),
		RangeHigh:      toNumber(r.Measurement.RangeHigh),
		Qualitative:    r.Measurement.Qualitative,
		Classification: r.Classification.String(),
		Confidence:     r.Confidence,
	})
}
