package track

import (
	"image"
	"image/color"
	"math"

	"github.com/chamber-lab/trackfit/internal/geom"
	"github.com/chamber-lab/trackfit/internal/units"
)

// Blackness sums the darkness of the image pixels inside the annular
// sector swept by the track: distances within radius ± dl of the fitted
// centre, polar angles within spanDeg counterclockwise of startDeg. Each
// pixel contributes its inverted luminance in [0, 1], so a saturated
// black pixel counts 1. The returned error is the square root of the sum,
// treating the darkness total as a counting measurement.
//
// Fails with ErrInvalidCorridor when dl is not positive.
func Blackness(img image.Image, c *Circle, dl, startDeg, spanDeg float64) (blackness, blacknessErr float64, err error) {
	if dl <= 0 {
		return 0, 0, ErrInvalidCorridor
	}

	outer := c.Radius + dl
	inner := c.Radius - dl
	if inner < 0 {
		inner = 0
	}

	bounds := img.Bounds()
	x0 := clampInt(int(math.Floor(c.CenterX-outer)), bounds.Min.X, bounds.Max.X)
	x1 := clampInt(int(math.Ceil(c.CenterX+outer))+1, bounds.Min.X, bounds.Max.X)
	y0 := clampInt(int(math.Floor(c.CenterY-outer)), bounds.Min.Y, bounds.Max.Y)
	y1 := clampInt(int(math.Ceil(c.CenterY+outer))+1, bounds.Min.Y, bounds.Max.Y)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float64(x) - c.CenterX
			dy := float64(y) - c.CenterY
			dist := math.Hypot(dx, dy)
			if dist < inner || dist > outer {
				continue
			}
			phi := geom.NormalizeDeg(math.Atan2(-dy, dx) * 180 / math.Pi)
			if geom.NormalizeDeg(phi-startDeg) > spanDeg {
				continue
			}
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			blackness += float64(255-gray.Y) / 255
		}
	}
	return blackness, math.Sqrt(blackness), nil
}

// OpticalDensity divides the accumulated blackness by the physical track
// length, giving darkness per unit length. The relative errors of the
// blackness sum and the track length combine in quadrature. Fails with
// ErrZeroTrackLength when the track length is not positive.
func OpticalDensity(blackness, blacknessErr float64, length units.Length) (density, densityErr float64, err error) {
	if length.Cm <= 0 {
		return 0, 0, ErrZeroTrackLength
	}
	density = blackness / length.Cm
	if blackness == 0 {
		return 0, 0, nil
	}
	rel := math.Hypot(length.Uncertainty()/length.Cm, blacknessErr/blackness)
	return density, density * rel, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
