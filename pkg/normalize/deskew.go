package normalize

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	maxSkewDegrees  = 5.0
	skewStepDegrees = 0.5
	probeWidth      = 400
)

// estimateSkew returns the rotation angle, in degrees, that best aligns the
// text rows with the horizontal axis, or 0 when the image already scores
// best as-is. Scoring uses the variance of per-row darkness sums on a
// downscaled probe: straight text rows produce strongly banded profiles.
func estimateSkew(img image.Image) float64 {
	probe := img
	if img.Bounds().Dx() > probeWidth {
		probe = imaging.Resize(img, probeWidth, 0, imaging.Box)
	}

	best, bestScore := 0.0, rowVariance(probe)
	for angle := -maxSkewDegrees; angle <= maxSkewDegrees; angle += skewStepDegrees {
		if angle == 0 {
			continue
		}
		rotated := imaging.Rotate(probe, angle, color.White)
		if score := rowVariance(rotated); score > bestScore {
			best, bestScore = angle, score
		}
	}
	return best
}

func rowVariance(img image.Image) float64 {
	bounds := img.Bounds()
	height := bounds.Dy()
	if height == 0 {
		return 0
	}

	sums := make([]float64, 0, height)
	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		var dark float64
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			dark += float64(255 - c.Y)
		}
		sums = append(sums, dark)
		total += dark
	}

	mean := total / float64(len(sums))
	var variance float64
	for _, s := range sums {
		d := s - mean
		variance += d * d
	}
	return variance / float64(len(sums))
}
