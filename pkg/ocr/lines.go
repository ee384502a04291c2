package ocr

import "sort"

// Word is a recognized word box as reported by an engine, before grouping
// into lines. Coordinates are pixels in the recognized image.
type Word struct {
	Text       string
	Confidence float64
	X, Y       int
	Height     int
}

// GroupWords clusters word boxes into reading-order lines. Words whose
// vertical extents overlap within a tolerance of a third of the running
// average word height belong to the same line; lines and the words inside
// them are ordered top-to-bottom, left-to-right.
func GroupWords(words []Word) []Line {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		if abs(sorted[i].Y-sorted[j].Y) < maxInt(sorted[i].Height, 1)/2 {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	var lines []Line
	var current []Word

	for _, word := range sorted {
		if len(current) == 0 || sameLine(current, word) {
			current = append(current, word)
			continue
		}
		lines = append(lines, lineFromWords(current))
		current = []Word{word}
	}
	if len(current) > 0 {
		lines = append(lines, lineFromWords(current))
	}

	return lines
}

func sameLine(current []Word, next Word) bool {
	avgHeight := 0
	minY, maxY := current[0].Y, current[0].Y+current[0].Height
	for _, w := range current {
		avgHeight += w.Height
		if w.Y < minY {
			minY = w.Y
		}
		if w.Y+w.Height > maxY {
			maxY = w.Y + w.Height
		}
	}
	avgHeight /= len(current)

	tolerance := avgHeight / 3
	return next.Y+next.Height >= minY-tolerance && next.Y <= maxY+tolerance
}

func lineFromWords(words []Word) Line {
	sort.Slice(words, func(i, j int) bool { return words[i].X < words[j].X })

	top := words[0].Y
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		if w.Text == "" {
			continue
		}
		if w.Y < top {
			top = w.Y
		}
		tokens = append(tokens, Token{Text: w.Text, Confidence: w.Confidence})
	}
	return Line{Tokens: tokens, Top: top}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
