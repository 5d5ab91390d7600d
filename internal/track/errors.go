package track

import "errors"

// Validation failures for the analysis operations. Every operation either
// returns a fully valid result or fails with one of these; no partial or
// NaN-laden results are ever returned. None of them is retryable: the
// computations are deterministic, so the operator has to correct the
// input first (add a marker, move markers apart, fix the field setting).
var (
	// ErrInsufficientPoints means fewer than three markers were supplied
	// to the circle fit.
	ErrInsufficientPoints = errors.New("at least 3 markers are required to fit a circle")

	// ErrDegenerateFit means the markers are exactly or nearly collinear,
	// leaving the fit ill-conditioned.
	ErrDegenerateFit = errors.New("markers are collinear or too close to collinear to fit a circle")

	// ErrUndefinedAngle means a tangent or opening angle has no defined
	// value, e.g. the start marker coincides with the fitted centre or
	// the reference line has zero length.
	ErrUndefinedAngle = errors.New("angle is undefined for the given geometry")

	// ErrInvalidField means the magnetic field strength is zero or
	// negative.
	ErrInvalidField = errors.New("magnetic field strength must be positive")

	// ErrInvalidCorridor means the dL corridor half-width for the optical
	// density calculation is zero or negative.
	ErrInvalidCorridor = errors.New("dL corridor half-width must be positive")

	// ErrZeroTrackLength means the optical density cannot be normalised
	// because the track length is not positive.
	ErrZeroTrackLength = errors.New("track length must be positive")
)
