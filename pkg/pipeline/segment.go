package pipeline

import (
	"strings"

	"github.com/pathwell/labscan/pkg/ocr"
)

// Segment groups raw OCR lines into logical report rows. It repairs the two
// common OCR artifacts: a test name wrapping onto the line above its value,
// and two tightly-spaced columns collapsing into one recognized line.
// Tokens are never dropped, only regrouped; top-to-bottom order is kept.
func Segment(lines []ocr.Line) []CandidateLine {
	var rows [][]ocr.Token
	for _, line := range lines {
		tokens := trimTokens(line.Tokens)
		if len(tokens) == 0 {
			continue
		}
		rows = append(rows, splitRow(tokens)...)
	}

	rows = mergeRows(rows)

	out := make([]CandidateLine, 0, len(rows))
	for i, tokens := range rows {
		texts := make([]string, len(tokens))
		var conf float64
		for j, t := range tokens {
			texts[j] = t.Text
			conf += t.Confidence
		}
		out = append(out, CandidateLine{
			Text:       strings.Join(texts, " "),
			Row:        i,
			Confidence: conf / float64(len(tokens)),
			tokens:     texts,
		})
	}
	return out
}

func trimTokens(tokens []ocr.Token) []ocr.Token {
	out := make([]ocr.Token, 0, len(tokens))
	for _, t := range tokens {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitRow breaks a recognized line that holds two logical rows. The cut
// point is a name-like token with a measured value on both sides of it:
// "Hemoglobin 13.2 g/dL Glucose 145 mg/dL" splits before "Glucose".
func splitRow(tokens []ocr.Token) [][]ocr.Token {
	seenNumber := false
	for i, tok := range tokens {
		if digitLead(tok.Text) {
			seenNumber = true
			continue
		}
		if !seenNumber || i == 0 || !nameLikeToken(tok.Text) {
			continue
		}
		if numberFollows(tokens[i+1:]) {
			rest := splitRow(tokens[i:])
			return append([][]ocr.Token{tokens[:i]}, rest...)
		}
	}
	return [][]ocr.Token{tokens}
}

func numberFollows(tokens []ocr.Token) bool {
	for _, tok := range tokens {
		if digitLead(tok.Text) {
			return true
		}
	}
	return false
}

// mergeRows joins a row with no numeric content into the row below when
// that row looks like a dangling value: exactly one value-candidate number
// and no test-name-like prefix.
func mergeRows(rows [][]ocr.Token) [][]ocr.Token {
	var out [][]ocr.Token
	for i := 0; i < len(rows); i++ {
		row := rows[i]
		if i+1 < len(rows) && !containsNumber(rowText(row)) && danglingValue(rows[i+1]) {
			row = append(append([]ocr.Token{}, row...), rows[i+1]...)
			i++
		}
		out = append(out, row)
	}
	return out
}

func danglingValue(tokens []ocr.Token) bool {
	if len(tokens) == 0 || nameLikeToken(tokens[0].Text) {
		return false
	}
	return countValueNumbers(rowText(tokens)) == 1
}

func rowText(tokens []ocr.Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
