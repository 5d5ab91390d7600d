package track

import (
	"math"

	"github.com/chamber-lab/trackfit/internal/units"
)

// MomentumConstant converts curvature to momentum: p[MeV/c] =
// MomentumConstant × B[kG] × r[cm] for a unit-charge particle in a
// uniform field. It folds the particle charge and the unit conversions
// into a single factor.
const MomentumConstant = 0.3

// MagneticField is the chamber's field strength in kilogauss, with an
// optional uncertainty. Configured externally and read-only here.
type MagneticField struct {
	KGauss float64
	Err    float64
}

// Momentum is the computed track momentum in MeV/c. StatErr carries the
// contribution of the fit's radius error; CalErr carries the calibration
// contributions (scale uncertainty and field uncertainty).
type Momentum struct {
	MeVc    float64 `json:"mev_c"`
	StatErr float64 `json:"stat_err"`
	CalErr  float64 `json:"cal_err"`
}

// Uncertainty returns the statistical and calibration errors combined in
// quadrature.
func (m Momentum) Uncertainty() float64 {
	return math.Hypot(m.StatErr, m.CalErr)
}

// ComputeMomentum derives the track momentum from the physical curvature
// radius. The relation is linear, so the radius errors propagate by the
// same factor; the field uncertainty adds a term MomentumConstant × r ×
// σB to the calibration error in quadrature. Fails with ErrInvalidField
// if the field strength is zero or negative.
func ComputeMomentum(radius units.Length, field MagneticField) (Momentum, error) {
	if field.KGauss <= 0 {
		return Momentum{}, ErrInvalidField
	}
	k := MomentumConstant * field.KGauss
	return Momentum{
		MeVc:    k * radius.Cm,
		StatErr: k * radius.StatErr,
		CalErr:  math.Hypot(k*radius.CalErr, MomentumConstant*radius.Cm*field.Err),
	}, nil
}
