package units

import "math"

// Scale is the calibration factor mapping image pixels to physical length,
// together with its own calibration uncertainty. It is supplied by the
// operator (or the chamber's fixed calibration) and read-only here.
type Scale struct {
	CmPerPx float64 // physical length per pixel
	Err     float64 // calibration uncertainty on CmPerPx, same units
}

// Length is a physical length derived from a pixel measurement. The
// statistical term comes from the pixel measurement's own uncertainty and
// the calibration term from the scale's uncertainty; the two are
// independent and reported separately, matching the original analysis
// output.
type Length struct {
	Cm      float64 `json:"cm"`
	StatErr float64 `json:"stat_err"`
	CalErr  float64 `json:"cal_err"`
}

// ToPhysical converts a pixel length and its measurement uncertainty into
// a physical Length. Pure linear scaling: value and statistical error
// scale by CmPerPx, and the calibration error is the pixel value times
// the scale uncertainty.
func (s Scale) ToPhysical(px, pxErr float64) Length {
	return Length{
		Cm:      px * s.CmPerPx,
		StatErr: pxErr * s.CmPerPx,
		CalErr:  px * s.Err,
	}
}

// Uncertainty returns the statistical and calibration errors combined in
// quadrature.
func (l Length) Uncertainty() float64 {
	return math.Hypot(l.StatErr, l.CalErr)
}
