package track

import (
	"math"

	"github.com/chamber-lab/trackfit/internal/geom"
)

// ArcLength returns the length in pixels of the arc swept from the start
// marker to the end marker along the fitted circle, following the
// counterclockwise span. Fails with ErrUndefinedAngle if either marker
// coincides with the fitted centre.
func ArcLength(c *Circle, start, end geom.Point) (float64, error) {
	span, err := SpanAngle(c, start, end)
	if err != nil {
		return 0, err
	}
	return c.Radius * span * math.Pi / 180, nil
}
