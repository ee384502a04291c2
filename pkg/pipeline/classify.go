package pipeline

import (
	"strings"

	"github.com/pathwell/labscan/pkg/catalog"
)

// positiveFindings are qualitative tokens that count as an abnormal result.
var positiveFindings = map[string]bool{
	"POSITIVE": true,
	"REACTIVE": true,
	"PRESENT":  true,
	"DETECTED": true,
	"SEEN":     true,
}

// Classify flags a measurement against its reference range. Bounds are
// inclusive: a value equal to either bound is Normal. Open-ended ranges
// classify on the present bound only; with no range at all the result is
// Unparseable.
func Classify(m Measurement, entry catalog.Entry) Classification {
	if entry.Qualitative {
		return classifyQualitative(m, entry)
	}

	if m.Value == nil {
		return Unparseable
	}
	if m.RangeLow == nil && m.RangeHigh == nil {
		return Unparseable
	}
	if m.RangeLow != nil && m.Value.LessThan(*m.RangeLow) {
		return Low
	}
	if m.RangeHigh != nil && m.Value.GreaterThan(*m.RangeHigh) {
		return High
	}
	return Normal
}

func classifyQualitative(m Measurement, entry catalog.Entry) Classification {
	if m.Qualitative == "" {
		return Unparseable
	}
	if entry.IsNegative(m.Qualitative) {
		return Normal
	}
	if positiveFindings[strings.ToUpper(m.Qualitative)] {
		return High
	}
	return Unparseable
}
