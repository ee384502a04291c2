package pipeline

import (
	"strings"
	"testing"

	"github.com/pathwell/labscan/pkg/catalog"
	"github.com/shopspring/decimal"
)

func mustCandidate(t *testing.T, entry catalog.Entry, rest string) MatchCandidate {
	t.Helper()
	c, err := catalog.New([]catalog.Entry{entry})
	if err != nil {
		t.Fatalf("building entry: %v", err)
	}
	return MatchCandidate{Entry: c.Entries()[0], Confidence: 1.0, rest: strings.Fields(rest)}
}

func decEq(t *testing.T, field string, got *decimal.Decimal, want string) {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Errorf("%s = %s, want nil", field, got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s = nil, want %s", field, want)
		return
	}
	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("bad expectation %q: %v", want, err)
	}
	if !got.Equal(expected) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

func TestParseMeasurement(t *testing.T) {
	plain := catalog.Entry{Name: "Hemoglobin"}
	withDefaults := catalog.Entry{
		Name:  "Hemoglobin",
		Unit:  "g/dL",
		Range: &catalog.Range{Low: "12.0", High: "15.0"},
	}

	tests := []struct {
		name      string
		entry     catalog.Entry
		rest      string
		wantValue string
		wantUnit  string
		wantLow   string
		wantHigh  string
	}{
		{
			name:      "value unit and spaced range",
			entry:     plain,
			rest:      "13.2 g/dL (12.0 - 15.5)",
			wantValue: "13.2",
			wantUnit:  "g/dL",
			wantLow:   "12.0",
			wantHigh:  "15.5",
		},
		{
			name:      "compact bracketed range",
			entry:     plain,
			rest:      "145 mg/dL (70-99)",
			wantValue: "145",
			wantUnit:  "mg/dL",
			wantLow:   "70",
			wantHigh:  "99",
		},
		{
			name:     "no standalone value",
			entry:    plain,
			rest:     "<3.0 10^9/L",
			wantHigh: "3.0",
		},
		{
			name:      "open-low range",
			entry:     plain,
			rest:      "15 mm/hr < 20",
			wantValue: "15",
			wantUnit:  "mm/hr",
			wantHigh:  "20",
		},
		{
			name:      "open-high range",
			entry:     plain,
			rest:      "200 mg/dL > 150",
			wantValue: "200",
			wantUnit:  "mg/dL",
			wantLow:   "150",
		},
		{
			name:      "signed open-low bound",
			entry:     plain,
			rest:      "-3.5 mmol/L < -2.0",
			wantValue: "-3.5",
			wantUnit:  "mmol/L",
			wantHigh:  "-2.0",
		},
		{
			name:      "signed open-high bound",
			entry:     plain,
			rest:      "0.5 U/mL > -0.5",
			wantValue: "0.5",
			wantUnit:  "U/mL",
			wantLow:   "-0.5",
		},
		{
			name:      "thousands separator",
			entry:     plain,
			rest:      "4,500 /cmm 4,000 - 11,000",
			wantValue: "4500",
			wantUnit:  "/cmm",
			wantLow:   "4000",
			wantHigh:  "11000",
		},
		{
			name:      "leading sign",
			entry:     plain,
			rest:      "-2.5 mmol/L",
			wantValue: "-2.5",
			wantUnit:  "mmol/L",
		},
		{
			name:      "range delimiter never taken as unit",
			entry:     plain,
			rest:      "13.2 (12.0 - 15.5)",
			wantValue: "13.2",
			wantLow:   "12.0",
			wantHigh:  "15.5",
		},
		{
			name:      "catalog defaults fill missing unit and range",
			entry:     withDefaults,
			rest:      "13.2",
			wantValue: "13.2",
			wantUnit:  "g/dL",
			wantLow:   "12.0",
			wantHigh:  "15.0",
		},
		{
			name:      "printed range beats catalog default",
			entry:     withDefaults,
			rest:      "13.2 g/dL (10.0 - 20.0)",
			wantValue: "13.2",
			wantUnit:  "g/dL",
			wantLow:   "10.0",
			wantHigh:  "20.0",
		},
		{
			name:  "nothing recoverable",
			entry: plain,
			rest:  "see attached note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseMeasurement(mustCandidate(t, tt.entry, tt.rest))
			decEq(t, "value", m.Value, tt.wantValue)
			decEq(t, "range_low", m.RangeLow, tt.wantLow)
			decEq(t, "range_high", m.RangeHigh, tt.wantHigh)
			if m.Unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", m.Unit, tt.wantUnit)
			}
		})
	}
}

func TestParseMeasurementExactDecimal(t *testing.T) {
	m := ParseMeasurement(mustCandidate(t, catalog.Entry{Name: "Hemoglobin"}, "13.2 g/dL"))
	if m.Value == nil {
		t.Fatal("expected a value")
	}
	// The decimal representation must be exact, not a float approximation.
	if m.Value.String() != "13.2" {
		t.Errorf("value serializes as %q, want \"13.2\"", m.Value.String())
	}
}

func TestParseQualitative(t *testing.T) {
	widal := catalog.Entry{
		Name:        "Widal",
		Qualitative: true,
		Negative:    []string{"NEGATIVE", "NON-REACTIVE"},
	}

	tests := []struct {
		name string
		rest string
		want string
	}{
		{name: "negative finding", rest: "NEGATIVE", want: "NEGATIVE"},
		{name: "hyphenated finding", rest: "NON-REACTIVE", want: "NON-REACTIVE"},
		{name: "trailing punctuation trimmed", rest: "Positive.", want: "POSITIVE"},
		{name: "no finding", rest: "1:80", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseMeasurement(mustCandidate(t, widal, tt.rest))
			if m.Qualitative != tt.want {
				t.Errorf("qualitative = %q, want %q", m.Qualitative, tt.want)
			}
			if m.Value != nil {
				t.Errorf("qualitative measurement must not carry a numeric value")
			}
		})
	}
}

func TestParseQualitativeMultiWordFinding(t *testing.T) {
	malaria := catalog.Entry{
		Name:        "Malaria",
		Aliases:     []string{"MALARIA PARASITE", "MP"},
		Qualitative: true,
		Negative:    []string{"NEGATIVE", "ABSENT", "NOT SEEN"},
	}

	tests := []struct {
		name string
		rest string
		want string
	}{
		{name: "two-word negative finding", rest: "NOT SEEN", want: "NOT SEEN"},
		{name: "mixed case with trailing punctuation", rest: "Not Seen.", want: "NOT SEEN"},
		{name: "filler word before the finding", rest: "ANTIGEN NEGATIVE", want: "NEGATIVE"},
		{name: "positive finding after filler", rest: "PARASITES SEEN", want: "SEEN"},
		{name: "single-word negative still works", rest: "ABSENT", want: "ABSENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseMeasurement(mustCandidate(t, malaria, tt.rest))
			if m.Qualitative != tt.want {
				t.Errorf("qualitative = %q, want %q", m.Qualitative, tt.want)
			}
		})
	}
}
