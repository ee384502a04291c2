// Package normalize prepares raw report images for OCR: decode, upscale,
// grayscale, contrast stretch, sharpen, and a light deskew.
package normalize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	// Decoders beyond the stdlib set; scanned reports arrive in all of these.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

// DecodeError indicates the input bytes could not be decoded as a supported
// image format. Fatal for the request.
type DecodeError struct {
	FormatHint string
	Err        error
}

func (e *DecodeError) Error() string {
	if e.FormatHint != "" {
		return fmt.Sprintf("decoding image (declared %s): %v", e.FormatHint, e.Err)
	}
	return fmt.Sprintf("decoding image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses raw image bytes. The format hint is advisory only; decoding
// sniffs the actual format and the hint is carried into errors for
// diagnostics.
func Decode(data []byte, formatHint string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{FormatHint: formatHint, Err: err}
	}
	return img, nil
}

// Normalize decodes and preprocesses raw image bytes into a bitmap suited
// for OCR.
func Normalize(data []byte, formatHint string) (image.Image, error) {
	img, err := Decode(data, formatHint)
	if err != nil {
		return nil, err
	}
	return Prepare(img), nil
}

// Prepare applies the OCR preprocessing chain to an already-decoded image.
func Prepare(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() < 300 || bounds.Dy() < 300 {
		img = imaging.Resize(img, bounds.Dx()*2, bounds.Dy()*2, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	contrast := imaging.AdjustContrast(gray, 15)
	sharp := imaging.Sharpen(contrast, 1.0)

	if angle := estimateSkew(sharp); angle != 0 {
		sharp = imaging.Rotate(sharp, angle, color.White)
	}

	return sharp
}
