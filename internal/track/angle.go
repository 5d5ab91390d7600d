package track

import (
	"math"

	"github.com/chamber-lab/trackfit/internal/geom"
)

// Angle convention: all angles are in degrees, measured counterclockwise
// from the positive x-axis and normalized to [0, 360). Image coordinates
// have y growing downward, so "counterclockwise" is the visual sense on
// screen. This matches the convention of the original analysis tool.

// Orientation is the sense in which the track is traversed around the
// fitted circle, determined from the winding of the ordered markers.
type Orientation int

const (
	// Counterclockwise in the visual (y-up) sense.
	CCW Orientation = 1
	// Clockwise in the visual sense.
	CW Orientation = -1
)

// TrackOrientation determines the traversal sense of the ordered markers
// around the fitted centre by summing the cross products of successive
// radius vectors. Markers placed along the track in order wind
// consistently one way; ties (a degenerate winding sum of zero) default
// to CCW.
func TrackOrientation(markers *geom.MarkerList, c *Circle) Orientation {
	center := c.Center()
	var winding float64
	for i := 1; i < markers.Len(); i++ {
		a := markers.At(i - 1).Point.Sub(center)
		b := markers.At(i).Point.Sub(center)
		// Cross product in visual coordinates flips sign because the
		// image y-axis points down.
		winding += -(a.X()*b.Y() - a.Y()*b.X())
	}
	if winding < 0 {
		return CW
	}
	return CCW
}

// TangentAngle computes the direction of the track's tangent at the start
// marker. The tangent is perpendicular to the radius vector from the
// fitted centre to the start marker, taken in the traversal sense orient
// so that it points forward along the track.
//
// The uncertainty propagates the fitted centre's coordinate errors and
// the start marker's own position error through the joint partial
// derivatives of the angle. The fitted radius enters only through the
// centre-to-start vector (the tangent point is the measured marker), so
// no separate radius term appears; treating centre and radius as
// independent contributions would double count.
//
// Fails with ErrUndefinedAngle if the start marker coincides with the
// fitted centre.
func TangentAngle(c *Circle, start geom.Point, orient Orientation) (angle, angleErr float64, err error) {
	dx := start.X() - c.CenterX
	dy := start.Y() - c.CenterY
	if dx == 0 && dy == 0 {
		return 0, 0, ErrUndefinedAngle
	}

	// Rotate the radius vector a quarter turn in the traversal sense.
	// In raw (y-down) coordinates a visual CCW quarter turn is
	// (x, y) -> (y, -x).
	var tx, ty float64
	if orient == CCW {
		tx, ty = dy, -dx
	} else {
		tx, ty = -dy, dx
	}
	angle = geom.NormalizeDeg(math.Atan2(-ty, tx) * 180 / math.Pi)

	// The tangent angle differs from the radius-vector polar angle by a
	// constant quarter turn, so both share the same partials. With
	// φ = atan2(-dy, dx):
	//   ∂φ/∂cx =  dy/d²   ∂φ/∂cy =  dx/d²  (centre coordinates)
	//   ∂φ/∂sx = -dy/d²   ∂φ/∂sy = -dx/d²  (start marker coordinates)
	d2 := dx*dx + dy*dy
	dphidx := dy / d2
	dphidy := dx / d2
	varRad := dphidx*dphidx*c.CenterXErr*c.CenterXErr +
		dphidy*dphidy*c.CenterYErr*c.CenterYErr +
		(dphidx*dphidx+dphidy*dphidy)*start.Err*start.Err
	angleErr = math.Sqrt(varRad) * 180 / math.Pi
	return angle, angleErr, nil
}

// TangentAngleToward computes the tangent angle at the start marker with
// the traversal sense chosen so the tangent points toward the end marker.
// When start and end are diametrically opposite the two senses are
// equally good and CCW is used. Prefer TrackOrientation over this
// two-point form when the full marker order is available.
func TangentAngleToward(c *Circle, start, end geom.Point) (angle, angleErr float64, err error) {
	dx := start.X() - c.CenterX
	dy := start.Y() - c.CenterY
	ex := end.X() - start.X()
	ey := end.Y() - start.Y()
	orient := CCW
	// Visual-CCW tangent in raw coordinates is (dy, -dx); flip when the
	// CW candidate aligns better with the chord to the end marker.
	if dy*ex-dx*ey < 0 {
		orient = CW
	}
	return TangentAngle(c, start, orient)
}

// SpanAngle returns the angle subtended at the fitted centre from the
// start marker to the end marker, counterclockwise, in [0, 360). Fails
// with ErrUndefinedAngle if either marker coincides with the centre.
func SpanAngle(c *Circle, start, end geom.Point) (float64, error) {
	center := c.Center()
	if (start.X() == c.CenterX && start.Y() == c.CenterY) ||
		(end.X() == c.CenterX && end.Y() == c.CenterY) {
		return 0, ErrUndefinedAngle
	}
	from := geom.PolarAngleDeg(center, start)
	to := geom.PolarAngleDeg(center, end)
	return geom.NormalizeDeg(to - from), nil
}

// OpeningAngle returns the angle from the operator's reference line
// (directed refA to refB) to the track tangent at the start marker,
// counterclockwise, in [0, 360). The reference line is taken as exact, so
// the uncertainty is the tangent angle's alone. Fails with
// ErrUndefinedAngle if the reference line has zero length or the tangent
// is itself undefined.
func OpeningAngle(c *Circle, start geom.Point, orient Orientation, refA, refB geom.Point) (angle, angleErr float64, err error) {
	if refA.X() == refB.X() && refA.Y() == refB.Y() {
		return 0, 0, ErrUndefinedAngle
	}
	tangent, tangentErr, err := TangentAngle(c, start, orient)
	if err != nil {
		return 0, 0, err
	}
	ref := geom.DirectionDeg(refA, refB)
	return geom.NormalizeDeg(tangent - ref), tangentErr, nil
}
