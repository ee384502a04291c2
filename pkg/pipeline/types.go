// Package pipeline turns noisy OCR output into validated, structured lab
// results: segment lines, match test names against the catalog, parse
// values and reference ranges, classify against the range, and assemble
// deduplicated records in report order.
package pipeline

import (
	"time"

	"github.com/pathwell/labscan/pkg/catalog"
	"github.com/shopspring/decimal"
)

// CandidateLine is one segmented, whitespace-normalized logical report row.
type CandidateLine struct {
	// Text is the row joined with single spaces; never empty after
	// segmentation.
	Text string
	// Row is the row's position in the report, top to bottom. It orders
	// the final output and tie-breaks genuine duplicate tests.
	Row int
	// Confidence is the mean OCR token confidence of the row.
	Confidence float64

	tokens []string
}

// MatchCandidate pairs a candidate line with the catalog entry it matched.
type MatchCandidate struct {
	Line       CandidateLine
	Entry      catalog.Entry
	Confidence float64
	// rest holds the line's tokens after the matched name segment; the
	// value/range parser reads from here.
	rest []string
}

// Measurement is the parsed numeric content of a matched line. Value and
// bounds are exact decimals; nil means not found. Qualitative holds the
// result token for qualitative tests instead of a number.
type Measurement struct {
	Value       *decimal.Decimal
	Unit        string
	RangeLow    *decimal.Decimal
	RangeHigh   *decimal.Decimal
	Qualitative string
}

// Classification flags a measurement against its reference range.
type Classification int

const (
	Unparseable Classification = iota
	Low
	Normal
	High
)

func (c Classification) String() string {
	switch c {
	case Low:
		return "Low"
	case Normal:
		return "Normal"
	case High:
		return "High"
	default:
		return "Unparseable"
	}
}

// LabResult is one extracted test result. Immutable once assembled.
type LabResult struct {
	TestName       string
	RawText        string
	Measurement    Measurement
	Classification Classification
	Confidence     float64

	row int
}

// Config carries the pipeline's tunables. Zero values are replaced by the
// defaults from DefaultConfig.
type Config struct {
	// OCRConfidenceThreshold is the mean token confidence below which the
	// extraction is tagged low-confidence.
	OCRConfidenceThreshold float64
	// FuzzyThreshold is the minimum accepted fuzzy-match confidence.
	FuzzyThreshold float64
	// OCRTimeout bounds a single OCR engine invocation.
	OCRTimeout time.Duration
	// LowConfidencePenalty multiplies every result's confidence when the
	// extraction was tagged low-confidence.
	LowConfidencePenalty float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		OCRConfidenceThreshold: 0.4,
		FuzzyThreshold:         0.75,
		OCRTimeout:             30 * time.Second,
		LowConfidencePenalty:   0.8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.OCRConfidenceThreshold <= 0 {
		c.OCRConfidenceThreshold = d.OCRConfidenceThreshold
	}
	if c.FuzzyThreshold <= 0 {
		c.FuzzyThreshold = d.FuzzyThreshold
	}
	if c.OCRTimeout <= 0 {
		c.OCRTimeout = d.OCRTimeout
	}
	if c.LowConfidencePenalty <= 0 {
		c.LowConfidencePenalty = d.LowConfidencePenalty
	}
	return c
}
