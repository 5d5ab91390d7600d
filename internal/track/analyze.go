package track

import (
	"github.com/chamber-lab/trackfit/internal/geom"
	"github.com/chamber-lab/trackfit/internal/units"
)

// Result bundles everything one analysis pass computes. It is created
// once per invocation and never mutated afterward.
type Result struct {
	Circle        *Circle      `json:"circle"`
	Orientation   Orientation  `json:"orientation"`
	RadiusCm      units.Length `json:"radius_cm"`
	StartAngle    float64      `json:"start_angle"`
	Span          float64      `json:"span_angle"`
	TrackLengthPx float64      `json:"track_length_px"`
	TrackLengthCm units.Length `json:"track_length_cm"`
	TangentAngle  float64      `json:"tangent_angle"`
	TangentErr    float64      `json:"tangent_angle_err"`
	Momentum      Momentum     `json:"momentum"`
}

// Analyze runs the full pipeline over one set of markers: circle fit,
// orientation, angles, unit conversion and momentum. The opening angle
// against a reference line and the optical density have extra inputs and
// stay separate (OpeningAngle, Blackness).
//
// The start and end markers are the designated ones, falling back to the
// first and last in placement order.
func Analyze(markers *geom.MarkerList, scale units.Scale, field MagneticField) (*Result, error) {
	circle, err := FitCircle(markers)
	if err != nil {
		return nil, err
	}

	// Non-empty by construction: FitCircle requires three markers.
	start, _ := markers.StartPoint()
	end, _ := markers.EndPoint()

	orient := TrackOrientation(markers, circle)
	tangent, tangentErr, err := TangentAngle(circle, start.Point, orient)
	if err != nil {
		return nil, err
	}
	span, err := SpanAngle(circle, start.Point, end.Point)
	if err != nil {
		return nil, err
	}
	lengthPx, err := ArcLength(circle, start.Point, end.Point)
	if err != nil {
		return nil, err
	}

	radiusCm := scale.ToPhysical(circle.Radius, circle.RadiusErr)
	// The pixel arc length carries no statistical term of its own in the
	// original analysis; only the calibration scale error applies.
	lengthCm := scale.ToPhysical(lengthPx, 0)

	momentum, err := ComputeMomentum(radiusCm, field)
	if err != nil {
		return nil, err
	}

	return &Result{
		Circle:        circle,
		Orientation:   orient,
		RadiusCm:      radiusCm,
		StartAngle:    geom.PolarAngleDeg(circle.Center(), start.Point),
		Span:          span,
		TrackLengthPx: lengthPx,
		TrackLengthCm: lengthCm,
		TangentAngle:  tangent,
		TangentErr:    tangentErr,
		Momentum:      momentum,
	}, nil
}
