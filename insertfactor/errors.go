package insertfactor

import "errors"

var (
	// ErrDegenerateData reports calibration data that cannot support
	// the spline fit: too few points, or points that are collinear or
	// otherwise fail to span the fit basis.
	ErrDegenerateData = errors.New("calibration data cannot support the spline fit")

	// ErrShapeMismatch reports query or calibration sequences with
	// inconsistent lengths. It is surfaced before any fitting starts.
	ErrShapeMismatch = errors.New("input shapes do not match")
)
