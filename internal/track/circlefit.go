// Package track implements the geometric and physical analysis of a
// particle track on a detector image: circle fitting over the operator's
// markers, tangent and span angles, arc length, momentum from curvature,
// and optical density, each with first-order propagated uncertainty.
//
// Every operation is a pure function of its inputs. Nothing in this
// package holds state between calls, so independent analyses may run
// concurrently without coordination.
package track

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/chamber-lab/trackfit/internal/geom"
)

// maxFitCondition bounds the condition number of the normal-equations
// matrix, evaluated in centred unit-RMS coordinates so the bound does not
// depend on image resolution or arc position. Above it the markers are
// treated as collinear.
const maxFitCondition = 1e12

// Circle holds the parameters of the fitted circle in pixel coordinates,
// with first-order propagated uncertainties from the marker position
// errors. RMS is the root-mean-square radial residual, the fit quality
// figure.
type Circle struct {
	CenterX    float64 `json:"center_x"`
	CenterY    float64 `json:"center_y"`
	Radius     float64 `json:"radius"`
	CenterXErr float64 `json:"center_x_err"`
	CenterYErr float64 `json:"center_y_err"`
	RadiusErr  float64 `json:"radius_err"`
	RMS        float64 `json:"rms"`
}

// Center returns the fitted centre as a geom.Point. The per-coordinate
// uncertainties stay on the Circle.
func (c *Circle) Center() geom.Point {
	return geom.NewPoint(c.CenterX, c.CenterY, 0)
}

// FitCircle fits a circle to the markers with the algebraic (Kåsa)
// least-squares method: the circle x² + y² + Ax + By + C = 0 is solved as
// a linear system in (A, B, C), minimising the algebraic residual over
// all markers. Coordinates are centred on the centroid and scaled to unit
// RMS before the normal equations are built, which keeps the system well
// conditioned for arcs far from the image origin.
//
// Marker position uncertainties propagate to first order: the partial
// derivative of each fitted parameter with respect to each marker
// coordinate is evaluated by central finite differences and the
// independent contributions combine in quadrature. Markers with zero
// position uncertainty contribute nothing, so an exact-point fit reports
// zero parameter errors.
func FitCircle(markers *geom.MarkerList) (*Circle, error) {
	if markers.Len() < 3 {
		return nil, ErrInsufficientPoints
	}
	pts := markers.Points()
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X()
		ys[i] = p.Y()
	}

	cx, cy, r, err := solveKasa(xs, ys)
	if err != nil {
		return nil, err
	}
	c := &Circle{CenterX: cx, CenterY: cy, Radius: r}
	c.RMS = radialRMS(xs, ys, cx, cy, r)

	var varCx, varCy, varR float64
	for i, p := range pts {
		sigma := p.Err
		if sigma == 0 {
			continue
		}
		for _, vals := range [][]float64{xs, ys} {
			dcx, dcy, dr := fitPartials(xs, ys, vals, i)
			varCx += dcx * dcx * sigma * sigma
			varCy += dcy * dcy * sigma * sigma
			varR += dr * dr * sigma * sigma
		}
	}
	c.CenterXErr = math.Sqrt(varCx)
	c.CenterYErr = math.Sqrt(varCy)
	c.RadiusErr = math.Sqrt(varR)
	if math.IsNaN(c.CenterXErr) || math.IsNaN(c.CenterYErr) || math.IsNaN(c.RadiusErr) {
		return nil, ErrDegenerateFit
	}
	return c, nil
}

// fitPartials returns ∂cx/∂t, ∂cy/∂t and ∂r/∂t where t is vals[i] (one
// coordinate of one marker). vals aliases either xs or ys; the coordinate
// is restored after each evaluation.
func fitPartials(xs, ys, vals []float64, i int) (dcx, dcy, dr float64) {
	orig := vals[i]
	settings := &fd.Settings{Formula: fd.Central}
	eval := func(sel func(cx, cy, r float64) float64) float64 {
		f := func(t float64) float64 {
			vals[i] = t
			cx, cy, r, err := solveKasa(xs, ys)
			vals[i] = orig
			if err != nil {
				return math.NaN()
			}
			return sel(cx, cy, r)
		}
		return fd.Derivative(f, orig, settings)
	}
	dcx = eval(func(cx, _, _ float64) float64 { return cx })
	dcy = eval(func(_, cy, _ float64) float64 { return cy })
	dr = eval(func(_, _, r float64) float64 { return r })
	return dcx, dcy, dr
}

// solveKasa performs one algebraic circle fit over the given coordinates.
// It fails with ErrDegenerateFit when the normal equations are singular
// or ill-conditioned (collinear or coincident markers).
func solveKasa(xs, ys []float64) (cx, cy, r float64, err error) {
	n := len(xs)
	mx := stat.Mean(xs, nil)
	my := stat.Mean(ys, nil)

	// RMS distance from the centroid sets the normalisation scale.
	var ss float64
	for i := range xs {
		du := xs[i] - mx
		dv := ys[i] - my
		ss += du*du + dv*dv
	}
	s := math.Sqrt(ss / float64(n))
	if s == 0 {
		// All markers coincide.
		return 0, 0, 0, ErrDegenerateFit
	}

	u := make([]float64, n)
	v := make([]float64, n)
	for i := range xs {
		u[i] = (xs[i] - mx) / s
		v[i] = (ys[i] - my) / s
	}

	// Normal equations G·[A B C]ᵀ = h for u² + v² + Au + Bv + C = 0,
	// from rows [uᵢ vᵢ 1]·[A B C]ᵀ = -(uᵢ²+vᵢ²).
	var suu, suv, svv, su, sv float64
	var hu, hv, hc float64
	for i := range u {
		q := u[i]*u[i] + v[i]*v[i]
		suu += u[i] * u[i]
		suv += u[i] * v[i]
		svv += v[i] * v[i]
		su += u[i]
		sv += v[i]
		hu -= q * u[i]
		hv -= q * v[i]
		hc -= q
	}
	g := mat.NewDense(3, 3, []float64{
		suu, suv, su,
		suv, svv, sv,
		su, sv, float64(n),
	})
	h := mat.NewVecDense(3, []float64{hu, hv, hc})

	var lu mat.LU
	lu.Factorize(g)
	if cond := lu.Cond(); math.IsNaN(cond) || cond > maxFitCondition {
		return 0, 0, 0, ErrDegenerateFit
	}
	var sol mat.VecDense
	if err := lu.SolveVecTo(&sol, false, h); err != nil {
		return 0, 0, 0, ErrDegenerateFit
	}
	a, b, cc := sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)

	r2 := a*a/4 + b*b/4 - cc
	if r2 <= 0 || math.IsNaN(r2) {
		return 0, 0, 0, ErrDegenerateFit
	}

	// Undo the normalisation.
	cx = mx - s*a/2
	cy = my - s*b/2
	r = s * math.Sqrt(r2)
	return cx, cy, r, nil
}

// radialRMS returns the root-mean-square of the radial residuals
// distᵢ - r.
func radialRMS(xs, ys []float64, cx, cy, r float64) float64 {
	res := make([]float64, len(xs))
	for i := range xs {
		res[i] = math.Hypot(xs[i]-cx, ys[i]-cy) - r
	}
	return math.Sqrt(floats.Dot(res, res) / float64(len(res)))
}
