// Package tesseract runs OCR through a locally installed Tesseract via the
// gosseract bindings.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"github.com/pathwell/labscan/pkg/ocr"
)

// Engine recognizes text with Tesseract. A fresh gosseract client is created
// per call, so the engine is safe for concurrent use.
type Engine struct {
	language string
}

// New creates a Tesseract engine for the given language, defaulting to "eng".
func New(language string) *Engine {
	if language == "" {
		language = "eng"
	}
	return &Engine{language: language}
}

// Name returns the engine name
func (e *Engine) Name() string {
	return "tesseract"
}

// Recognize runs Tesseract over the image and groups the recognized word
// boxes into lines. Tesseract itself cannot be interrupted mid-run; ctx is
// checked before the blocking call and the caller is expected to bound the
// invocation with a deadline.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]ocr.Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image for tesseract: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("setting tesseract language %q: %w: %v", e.language, ocr.ErrUnavailable, err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("loading image into tesseract: %w: %v", ocr.ErrUnavailable, err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w: %v", ocr.ErrUnavailable, err)
	}

	words := make([]ocr.Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, ocr.Word{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Height:     box.Box.Dy(),
		})
	}

	return ocr.GroupWords(words), nil
}

// Close releases engine resources. Clients are per-call, so there is
// nothing to release.
func (e *Engine) Close() error {
	return nil
}
