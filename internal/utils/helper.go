package utils

import (
	"log/slog"
	"os"
	"regexp"
)

var (
	// API keys in URL query parameters: key=VALUE, api_key=VALUE, apiKey=VALUE
	keyPattern = regexp.MustCompile(`([?&])(api[_\-]?[kK]ey|key)=([^&\s"]+)`)
	// Bearer tokens in Authorization headers
	bearerPattern = regexp.MustCompile(`Bearer\s+([A-Za-z0-9_\-.]+)`)
)

// MaskSensitiveData masks credentials in strings before they reach logs.
// Cloud OCR backends embed API keys in request URLs, and their errors can
// echo those URLs back.
func MaskSensitiveData(s string) string {
	if s == "" {
		return s
	}
	s = keyPattern.ReplaceAllString(s, `${1}${2}=***MASKED***`)
	s = bearerPattern.ReplaceAllString(s, `Bearer ***MASKED***`)
	return s
}

// MaskSensitiveError wraps an error so credentials are masked when the
// error is rendered.
func MaskSensitiveError(err error) error {
	if err == nil {
		return nil
	}
	return &maskedError{err: err}
}

type maskedError struct {
	err error
}

func (e *maskedError) Error() string {
	return MaskSensitiveData(e.err.Error())
}

func (e *maskedError) Unwrap() error {
	return e.err
}

func ExitOnError(msg string, err error) {
	slog.Error(msg, "err", MaskSensitiveError(err))
	os.Exit(1)
}
