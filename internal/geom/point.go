// Package geom provides the point and marker types used by the track
// analysis pipeline. Coordinates are in image pixels with the origin at
// the top-left corner and y growing downward, matching the detector scan.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a measured position on the detector image. Err is the position
// uncertainty in pixels, applied to both coordinates. A Point is a value;
// callers never mutate one after construction.
type Point struct {
	orb.Point
	Err float64
}

// NewPoint returns a Point at (x, y) with position uncertainty err.
func NewPoint(x, y, err float64) Point {
	return Point{Point: orb.Point{x, y}, Err: err}
}

// Sub returns the vector from q to p as an orb.Point.
func (p Point) Sub(q Point) orb.Point {
	return orb.Point{p.X() - q.X(), p.Y() - q.Y()}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X()-q.X(), p.Y()-q.Y())
}

// DirectionDeg returns the angle of the vector from a to b in degrees,
// counterclockwise from the positive x-axis, in [0, 360). Image
// coordinates have y growing downward, so "counterclockwise" is the
// visual sense on screen: a vector pointing up the image has angle 90.
func DirectionDeg(a, b Point) float64 {
	return NormalizeDeg(math.Atan2(a.Y()-b.Y(), b.X()-a.X()) * 180 / math.Pi)
}

// PolarAngleDeg returns the angular coordinate of p about origin, in
// degrees counterclockwise from the positive x-axis, in [0, 360).
func PolarAngleDeg(origin, p Point) float64 {
	return DirectionDeg(origin, p)
}

// NormalizeDeg maps an angle in degrees into [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
