package ocr

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates the OCR backend could not be invoked at all,
// e.g. a missing tesseract installation or absent cloud credentials.
// Fatal for the request.
var ErrUnavailable = errors.New("ocr engine unavailable")

// ErrTimeout indicates the OCR invocation exceeded its deadline. Fatal for
// the request and never retried: OCR is deterministic per image, so a retry
// would not change the outcome.
var ErrTimeout = errors.New("ocr timed out")

// LowConfidenceError reports that the engine produced output whose mean
// token confidence fell below the configured threshold. It is non-fatal:
// the recognized lines are still returned alongside it so the caller can
// degrade result confidence instead of discarding the image.
type LowConfidenceError struct {
	Mean      float64
	Threshold float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("ocr confidence %.2f below threshold %.2f", e.Mean, e.Threshold)
}
