// Package vision runs OCR through the Google Cloud Vision document-text API.
// Credentials are resolved the usual way (GOOGLE_APPLICATION_CREDENTIALS or
// ambient service-account identity).
package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	visionapi "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/pathwell/labscan/pkg/ocr"
)

// Engine recognizes text with the Cloud Vision API. The API client is
// created lazily on first use and reused across calls.
type Engine struct {
	mu     sync.Mutex
	client *visionapi.ImageAnnotatorClient
}

// New creates a Cloud Vision engine
func New() *Engine {
	return &Engine{}
}

// Name returns the engine name
func (e *Engine) Name() string {
	return "vision"
}

func (e *Engine) annotator(ctx context.Context) (*visionapi.ImageAnnotatorClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client, nil
	}
	client, err := visionapi.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w: %v", ocr.ErrUnavailable, err)
	}
	e.client = client
	return client, nil
}

// Recognize sends the image to the document-text endpoint and converts the
// page/block/paragraph/word hierarchy into flat reading-order lines.
func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]ocr.Line, error) {
	client, err := e.annotator(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image for vision: %w", err)
	}

	visionImg, err := visionapi.NewImageFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("preparing vision request: %w", err)
	}

	annotation, err := client.DetectDocumentText(ctx, visionImg, nil)
	if err != nil {
		return nil, fmt.Errorf("vision document text detection: %w", err)
	}
	if annotation == nil {
		return nil, nil
	}

	var words []ocr.Word
	for _, page := range annotation.GetPages() {
		for _, block := range page.GetBlocks() {
			for _, paragraph := range block.GetParagraphs() {
				for _, word := range paragraph.GetWords() {
					w, ok := toWord(word)
					if ok {
						words = append(words, w)
					}
				}
			}
		}
	}

	return ocr.GroupWords(words), nil
}

func toWord(word *visionpb.Word) (ocr.Word, bool) {
	var text bytes.Buffer
	for _, symbol := range word.GetSymbols() {
		text.WriteString(symbol.GetText())
	}
	if text.Len() == 0 {
		return ocr.Word{}, false
	}

	x, y, height := boxGeometry(word.GetBoundingBox())
	return ocr.Word{
		Text:       text.String(),
		Confidence: float64(word.GetConfidence()),
		X:          x,
		Y:          y,
		Height:     height,
	}, true
}

func boxGeometry(poly *visionpb.BoundingPoly) (x, y, height int) {
	vertices := poly.GetVertices()
	if len(vertices) == 0 {
		return 0, 0, 0
	}
	minX, minY := int(vertices[0].GetX()), int(vertices[0].GetY())
	maxY := minY
	for _, v := range vertices[1:] {
		if int(v.GetX()) < minX {
			minX = int(v.GetX())
		}
		if int(v.GetY()) < minY {
			minY = int(v.GetY())
		}
		if int(v.GetY()) > maxY {
			maxY = int(v.GetY())
		}
	}
	return minX, minY, maxY - minY
}

// Close shuts down the underlying API client if one was created.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}
