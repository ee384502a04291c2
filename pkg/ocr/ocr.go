package ocr

import (
	"context"
	"image"
	"strings"
)

// Token is a single recognized word with the engine's confidence in [0, 1].
type Token struct {
	Text       string
	Confidence float64
}

// Line is an ordered run of tokens recognized on one visual row. Top is a
// vertical position hint used only to preserve top-to-bottom report order;
// it carries no geometric meaning downstream.
type Line struct {
	Tokens []Token
	Top    int
}

// Text joins the line's tokens with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Tokens))
	for _, t := range l.Tokens {
		if t.Text != "" {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Confidence returns the mean token confidence, or 0 for an empty line.
func (l Line) Confidence() float64 {
	if len(l.Tokens) == 0 {
		return 0
	}
	var sum float64
	for _, t := range l.Tokens {
		sum += t.Confidence
	}
	return sum / float64(len(l.Tokens))
}

// MeanConfidence averages token confidence across all lines.
func MeanConfidence(lines []Line) float64 {
	var sum float64
	var n int
	for _, l := range lines {
		for _, t := range l.Tokens {
			sum += t.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Engine is the narrow capability the pipeline needs from an OCR backend:
// given a normalized bitmap, produce recognized lines of tokens with
// per-token confidence. Implementations must be safe for concurrent use.
type Engine interface {
	// Recognize runs OCR on the image. It honors ctx cancellation where the
	// underlying backend allows it.
	Recognize(ctx context.Context, img image.Image) ([]Line, error)
	// Name returns the engine's registry name.
	Name() string
	// Close releases any resources held by the engine.
	Close() error
}
