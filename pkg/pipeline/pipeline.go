package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/pathwell/labscan/pkg/catalog"
	"github.com/pathwell/labscan/pkg/normalize"
	"github.com/pathwell/labscan/pkg/ocr"
)

// Analyzer is the pipeline entry point. It holds only read-only state (the
// catalog and configuration) plus the OCR engine, so a single Analyzer may
// serve concurrent requests.
type Analyzer struct {
	engine  ocr.Engine
	catalog *catalog.Catalog
	matcher *Matcher
	cfg     Config
}

// New wires an Analyzer. The catalog is injected rather than global so
// tests can run against synthetic catalogs.
func New(engine ocr.Engine, cat *catalog.Catalog, cfg Config) *Analyzer {
	cfg = cfg.withDefaults()
	return &Analyzer{
		engine:  engine,
		catalog: cat,
		matcher: NewMatcher(cat, cfg.FuzzyThreshold),
		cfg:     cfg,
	}
}

// Analyze runs the full pipeline over raw image bytes and returns the
// extracted results in report order. Image-level failures (undecodable
// image, unavailable or timed-out OCR) abort with an error; record-level
// parsing failures only degrade the affected record, so the caller always
// gets either a structured error or a (possibly empty) result list.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, formatHint string) ([]LabResult, error) {
	img, err := normalize.Normalize(data, formatHint)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := a.extract(ctx, img)
	lowConfidence := false
	if err != nil {
		var lc *ocr.LowConfidenceError
		if !errors.As(err, &lc) {
			return nil, err
		}
		lowConfidence = true
		slog.Debug("ocr output below confidence threshold, degrading results",
			"mean", lc.Mean, "threshold", lc.Threshold)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, line := range lines {
		slog.Debug("ocr line", "text", line.Text(), "confidence", line.Confidence())
	}

	rows := Segment(lines)
	results := make([]LabResult, 0, len(rows))
	for _, row := range rows {
		mc, ok := a.matcher.Match(row)
		if !ok {
			// Letterhead, section headers, disclaimers. Dropping these is
			// deliberate: unmatched text must not surface as results.
			slog.Debug("no catalog match", "line", row.Text)
			continue
		}

		m := ParseMeasurement(mc)
		results = append(results, LabResult{
			TestName:       mc.Entry.Name,
			RawText:        row.Text,
			Measurement:    m,
			Classification: Classify(m, mc.Entry),
			Confidence:     mc.Confidence * row.Confidence,
			row:            row.Row,
		})
	}

	return Assemble(results, lowConfidence, a.cfg.LowConfidencePenalty), nil
}

// extract invokes the OCR engine under the configured timeout. It returns
// recognized lines even when tagging them with a LowConfidenceError, which
// is the one non-fatal entry in the error taxonomy.
func (a *Analyzer) extract(ctx context.Context, img image.Image) ([]ocr.Line, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.OCRTimeout)
	defer cancel()

	type recognized struct {
		lines []ocr.Line
		err   error
	}
	ch := make(chan recognized, 1)
	go func() {
		lines, err := a.engine.Recognize(ctx, img)
		ch <- recognized{lines, err}
	}()

	var lines []ocr.Line
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("engine %s: %w", a.engine.Name(), ocr.ErrTimeout)
		}
		return nil, ctx.Err()
	case out := <-ch:
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("engine %s: %w", a.engine.Name(), ocr.ErrTimeout)
			}
			return nil, fmt.Errorf("engine %s: %w", a.engine.Name(), out.err)
		}
		lines = out.lines
	}

	if len(lines) == 0 {
		return nil, nil
	}
	if mean := ocr.MeanConfidence(lines); mean < a.cfg.OCRConfidenceThreshold {
		return lines, &ocr.LowConfidenceError{Mean: mean, Threshold: a.cfg.OCRConfidenceThreshold}
	}
	return lines, nil
}
