package pipeline

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	lowHighRe = regexp.MustCompile(`([+-]?\d[\d,]*(?:\.\d+)?)\s*(?:-|–|to)\s*([+-]?\d[\d,]*(?:\.\d+)?)`)
	belowRe   = regexp.MustCompile(`[<≤]\s*([+-]?\d[\d,]*(?:\.\d+)?)`)
	aboveRe   = regexp.MustCompile(`[>≥]\s*([+-]?\d[\d,]*(?:\.\d+)?)`)

	unitStopTokens = map[string]bool{"-": true, "–": true, "to": true, "<": true, ">": true, "≤": true, "≥": true}
	qualTokenRe    = regexp.MustCompile(`^[A-Za-z][A-Za-z-]*$`)
)

// ParseMeasurement extracts value, unit, and reference range from a matched
// line. Parsing failures never raise: a line with no recoverable value
// yields a nil Value, which classifies as Unparseable downstream.
func ParseMeasurement(mc MatchCandidate) Measurement {
	if mc.Entry.Qualitative {
		return parseQualitative(mc)
	}

	var m Measurement

	valueIdx := -1
	for i, tok := range mc.rest {
		if v, ok := valueNumber(tok); ok {
			m.Value = v
			valueIdx = i
			break
		}
	}

	remainder := mc.rest
	if valueIdx >= 0 {
		remainder = mc.rest[valueIdx+1:]
		if unit, ok := unitToken(remainder); ok {
			m.Unit = unit
			remainder = remainder[1:]
		}
	}

	m.RangeLow, m.RangeHigh = parseRange(strings.Join(remainder, " "))

	if m.Unit == "" {
		m.Unit = mc.Entry.Unit
	}
	if m.RangeLow == nil && m.RangeHigh == nil {
		m.RangeLow, m.RangeHigh = mc.Entry.DefaultRange()
	}

	return m
}

func unitToken(rest []string) (string, bool) {
	if len(rest) == 0 {
		return "", false
	}
	tok := strings.TrimRight(rest[0], ",;:")
	if tok == "" || digitLead(tok) || unitStopTokens[strings.ToLower(tok)] || strings.HasPrefix(tok, "(") {
		return "", false
	}
	return tok, true
}

// parseRange tries the supported reference-range shapes in order:
// "low - high", "< high" (open low), "> low" (open high). A bracketed
// "(low-high)" is covered by the first shape, brackets and all.
func parseRange(text string) (low, high *decimal.Decimal) {
	if m := lowHighRe.FindStringSubmatch(text); m != nil {
		l, lok := parseDecimal(m[1])
		h, hok := parseDecimal(m[2])
		if lok && hok && !l.GreaterThan(*h) {
			return l, h
		}
	}
	if m := belowRe.FindStringSubmatch(text); m != nil {
		if h, ok := parseDecimal(m[1]); ok {
			return nil, h
		}
	}
	if m := aboveRe.FindStringSubmatch(text); m != nil {
		if l, ok := parseDecimal(m[1]); ok {
			return l, nil
		}
	}
	return nil, nil
}

// maxFindingTokens bounds the token span of a qualitative finding; the
// longest in use is the two-word "NOT SEEN".
const maxFindingTokens = 2

// parseQualitative captures the finding of a qualitative test, e.g.
// "WIDAL TEST : NEGATIVE". A finding the classifier recognizes wins over
// filler words ("ANTIGEN NEGATIVE" captures NEGATIVE), and may span tokens;
// windows are tried longest first so "NOT SEEN" is never misread as "SEEN".
// With no recognized finding, the first plain word is captured so the
// consumer still sees what was printed.
func parseQualitative(mc MatchCandidate) Measurement {
	words := make([]string, len(mc.rest))
	for i, tok := range mc.rest {
		cleaned := strings.TrimRight(tok, ",.;:")
		if qualTokenRe.MatchString(cleaned) {
			words[i] = strings.ToUpper(cleaned)
		}
	}

	for width := maxFindingTokens; width >= 1; width-- {
		for i := 0; i+width <= len(words); i++ {
			phrase := phraseOf(words[i : i+width])
			if phrase == "" {
				continue
			}
			if mc.Entry.IsNegative(phrase) || positiveFindings[phrase] {
				return Measurement{Qualitative: phrase}
			}
		}
	}

	for _, w := range words {
		if w != "" {
			return Measurement{Qualitative: w}
		}
	}
	return Measurement{}
}

// phraseOf joins a window of cleaned words, or returns "" when the window
// crosses a non-word token.
func phraseOf(words []string) string {
	for _, w := range words {
		if w == "" {
			return ""
		}
	}
	return strings.Join(words, " ")
}
