package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// numberRe matches a decimal number with optional sign, optional thousands
// separators, and optional fraction.
var numberRe = regexp.MustCompile(`[+-]?\d{1,3}(?:,\d{3})+(?:\.\d+)?|[+-]?\d+(?:\.\d+)?`)

var (
	fullNumberRe = regexp.MustCompile(`^(?:[+-]?\d{1,3}(?:,\d{3})+(?:\.\d+)?|[+-]?\d+(?:\.\d+)?)$`)
	bracketRe    = regexp.MustCompile(`\([^)]*\)`)
	spanRangeRe  = regexp.MustCompile(`[+-]?\d[\d,]*(?:\.\d+)?\s*(?:-|–|to)\s*[+-]?\d[\d,]*(?:\.\d+)?`)
	openRangeRe  = regexp.MustCompile(`[<>≤≥]\s*[+-]?\d[\d,]*(?:\.\d+)?`)
	nameTokenRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z'-]{2,}$`)
	digitLeadRe  = regexp.MustCompile(`^[(\[<>≤≥+-]*\d`)
)

// valueNumber reports whether tok can serve as a standalone value and
// returns it as an exact decimal. Tokens glued to a range delimiter
// ("<3.0", "(12.0") never qualify; trailing punctuation is forgiven.
func valueNumber(tok string) (*decimal.Decimal, bool) {
	if tok == "" {
		return nil, false
	}
	first, _ := utf8.DecodeRuneInString(tok)
	if strings.ContainsRune("(<>[≤≥", first) {
		return nil, false
	}
	cleaned := strings.TrimRight(tok, ",.;:)]")
	if !fullNumberRe.MatchString(cleaned) {
		return nil, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(cleaned, ",", ""))
	if err != nil {
		return nil, false
	}
	return &d, true
}

func parseDecimal(s string) (*decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return nil, false
	}
	return &d, true
}

// countValueNumbers counts the numbers in text that are NOT part of a range
// expression, i.e. candidates for being the measured value.
func countValueNumbers(text string) int {
	text = bracketRe.ReplaceAllString(text, " ")
	text = spanRangeRe.ReplaceAllString(text, " ")
	text = openRangeRe.ReplaceAllString(text, " ")
	return len(numberRe.FindAllString(text, -1))
}

func containsNumber(text string) bool {
	return numberRe.MatchString(text)
}

// nameLikeToken reports whether tok looks like the start of a test name:
// purely alphabetic (hyphen/apostrophe allowed) and at least three runes.
func nameLikeToken(tok string) bool {
	return nameTokenRe.MatchString(tok)
}

// digitLead reports whether tok begins numerically, optionally behind a
// sign, bracket, or comparison glyph.
func digitLead(tok string) bool {
	return digitLeadRe.MatchString(tok)
}
