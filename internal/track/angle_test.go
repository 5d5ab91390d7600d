package track

import (
	"errors"
	"math"
	"testing"

	"github.com/chamber-lab/trackfit/internal/geom"
)

func circleAt(cx, cy, r float64) *Circle {
	return &Circle{CenterX: cx, CenterY: cy, Radius: r}
}

func TestTangentAngle_RightmostPoint(t *testing.T) {
	c := circleAt(0, 0, 1)
	start := geom.NewPoint(1, 0, 0)

	angle, angleErr, err := TangentAngle(c, start, CCW)
	if err != nil {
		t.Fatalf("TangentAngle failed: %v", err)
	}
	if math.Abs(angle-90) > 1e-12 {
		t.Errorf("CCW tangent at rightmost point = %v, want 90", angle)
	}
	if angleErr != 0 {
		t.Errorf("angle error = %v, want 0 for exact inputs", angleErr)
	}

	angle, _, err = TangentAngle(c, start, CW)
	if err != nil {
		t.Fatalf("TangentAngle failed: %v", err)
	}
	if math.Abs(angle-270) > 1e-12 {
		t.Errorf("CW tangent at rightmost point = %v, want 270", angle)
	}
}

func TestTangentAngle_IsPerpendicularToRadius(t *testing.T) {
	c := circleAt(12, -7, 25)
	for deg := 0.0; deg < 360; deg += 30 {
		theta := deg * math.Pi / 180
		start := geom.NewPoint(c.CenterX+c.Radius*math.Cos(theta), c.CenterY+c.Radius*math.Sin(theta), 0)

		tangent, _, err := TangentAngle(c, start, CCW)
		if err != nil {
			t.Fatalf("TangentAngle failed at %v deg: %v", deg, err)
		}
		radial := geom.PolarAngleDeg(c.Center(), start)
		diff := geom.NormalizeDeg(tangent - radial)
		if math.Abs(diff-90) > 1e-9 {
			t.Errorf("tangent-radial angle at %v deg = %v, want 90", deg, diff)
		}
	}
}

func TestTangentAngle_StartAtCenter(t *testing.T) {
	c := circleAt(5, 5, 3)
	if _, _, err := TangentAngle(c, geom.NewPoint(5, 5, 0), CCW); !errors.Is(err, ErrUndefinedAngle) {
		t.Errorf("expected ErrUndefinedAngle, got %v", err)
	}
}

func TestTangentAngle_TranslationInvariant(t *testing.T) {
	base, _, err := TangentAngle(circleAt(0, 0, 10), geom.NewPoint(10, 0, 0), CCW)
	if err != nil {
		t.Fatalf("TangentAngle failed: %v", err)
	}
	moved, _, err := TangentAngle(circleAt(400, -250, 10), geom.NewPoint(410, -250, 0), CCW)
	if err != nil {
		t.Fatalf("TangentAngle failed: %v", err)
	}
	if math.Abs(base-moved) > 1e-12 {
		t.Errorf("tangent angle changed under translation: %v vs %v", base, moved)
	}
}

func TestTangentAngle_ErrorPropagation(t *testing.T) {
	c := circleAt(0, 0, 10)
	c.CenterXErr = 0.5
	c.CenterYErr = 0.5

	// At the rightmost point the tangent is vertical; only the x spread
	// of the centre and start marker rotates it.
	_, angleErr, err := TangentAngle(c, geom.NewPoint(10, 0, 0), CCW)
	if err != nil {
		t.Fatalf("TangentAngle failed: %v", err)
	}
	if angleErr <= 0 {
		t.Fatalf("expected positive angle error, got %v", angleErr)
	}

	// Doubling the radius halves the angular effect of the same centre
	// spread.
	wide := circleAt(0, 0, 20)
	wide.CenterXErr = 0.5
	wide.CenterYErr = 0.5
	_, wideErr, err := TangentAngle(wide, geom.NewPoint(20, 0, 0), CCW)
	if err != nil {
		t.Fatalf("TangentAngle failed: %v", err)
	}
	if ratio := angleErr / wideErr; math.Abs(ratio-2) > 1e-9 {
		t.Errorf("angle error ratio = %v, want 2", ratio)
	}
}

func TestTangentAngleToward(t *testing.T) {
	c := circleAt(0, 0, 1)
	start := geom.NewPoint(1, 0, 0)

	// End marker below the centre on screen: the track curves clockwise,
	// so the forward tangent points down the image.
	angle, _, err := TangentAngleToward(c, start, geom.NewPoint(0, 1, 0))
	if err != nil {
		t.Fatalf("TangentAngleToward failed: %v", err)
	}
	if math.Abs(angle-270) > 1e-12 {
		t.Errorf("tangent toward lower end marker = %v, want 270", angle)
	}

	// End marker above the centre: counterclockwise, tangent points up.
	angle, _, err = TangentAngleToward(c, start, geom.NewPoint(0, -1, 0))
	if err != nil {
		t.Fatalf("TangentAngleToward failed: %v", err)
	}
	if math.Abs(angle-90) > 1e-12 {
		t.Errorf("tangent toward upper end marker = %v, want 90", angle)
	}
}

func TestTrackOrientation(t *testing.T) {
	c := circleAt(1, 0, 1)

	// (0,0) -> (1,1) -> (2,0) dips down the image through the bottom of
	// the circle: counterclockwise in the visual sense.
	ccw := geom.NewMarkerList()
	ccw.Add(geom.NewPoint(0, 0, 0))
	ccw.Add(geom.NewPoint(1, 1, 0))
	ccw.Add(geom.NewPoint(2, 0, 0))
	if got := TrackOrientation(ccw, c); got != CCW {
		t.Errorf("orientation = %v, want CCW", got)
	}

	// The same markers in reverse order wind the other way.
	cw := geom.NewMarkerList()
	cw.Add(geom.NewPoint(2, 0, 0))
	cw.Add(geom.NewPoint(1, 1, 0))
	cw.Add(geom.NewPoint(0, 0, 0))
	if got := TrackOrientation(cw, c); got != CW {
		t.Errorf("orientation = %v, want CW", got)
	}
}

func TestSpanAngle(t *testing.T) {
	c := circleAt(1, 0, 1)
	span, err := SpanAngle(c, geom.NewPoint(0, 0, 0), geom.NewPoint(2, 0, 0))
	if err != nil {
		t.Fatalf("SpanAngle failed: %v", err)
	}
	if math.Abs(span-180) > 1e-12 {
		t.Errorf("span = %v, want 180", span)
	}

	// Same marker twice subtends nothing.
	span, err = SpanAngle(c, geom.NewPoint(0, 0, 0), geom.NewPoint(0, 0, 0))
	if err != nil {
		t.Fatalf("SpanAngle failed: %v", err)
	}
	if span != 0 {
		t.Errorf("span = %v, want 0", span)
	}
}

func TestSpanAngle_MarkerAtCenter(t *testing.T) {
	c := circleAt(0, 0, 1)
	if _, err := SpanAngle(c, geom.NewPoint(0, 0, 0), geom.NewPoint(1, 0, 0)); !errors.Is(err, ErrUndefinedAngle) {
		t.Errorf("expected ErrUndefinedAngle, got %v", err)
	}
}

func TestOpeningAngle(t *testing.T) {
	c := circleAt(0, 0, 1)
	start := geom.NewPoint(1, 0, 0)
	refA := geom.NewPoint(0, 0, 0)
	refB := geom.NewPoint(1, 0, 0) // reference along +x

	opening, _, err := OpeningAngle(c, start, CCW, refA, refB)
	if err != nil {
		t.Fatalf("OpeningAngle failed: %v", err)
	}
	// Tangent is 90 and the reference direction 0.
	if math.Abs(opening-90) > 1e-12 {
		t.Errorf("opening angle = %v, want 90", opening)
	}

	// A reference up the image shifts the opening by the same amount.
	refUp := geom.NewPoint(0, -1, 0)
	opening, _, err = OpeningAngle(c, start, CCW, refA, refUp)
	if err != nil {
		t.Fatalf("OpeningAngle failed: %v", err)
	}
	if math.Abs(opening-0) > 1e-12 {
		t.Errorf("opening angle vs vertical reference = %v, want 0", opening)
	}
}

func TestOpeningAngle_ZeroLengthReference(t *testing.T) {
	c := circleAt(0, 0, 1)
	p := geom.NewPoint(3, 3, 0)
	if _, _, err := OpeningAngle(c, geom.NewPoint(1, 0, 0), CCW, p, p); !errors.Is(err, ErrUndefinedAngle) {
		t.Errorf("expected ErrUndefinedAngle for zero-length reference, got %v", err)
	}
}
