package insertfactor

import (
	"fmt"

	"github.com/banshee-data/electron.inserts/internal/bspline"
)

// Spline degrees fixed by the published modelling methodology — not
// user-tunable.
const (
	// DegreeWidth is the spline polynomial degree along the width axis.
	DegreeWidth = 2
	// DegreeRatio is the spline polynomial degree along the
	// perimeter/area axis.
	DegreeRatio = 1
	// MinCalibrationPoints is the smallest calibration set that can
	// support a degree-(2,1) surface.
	MinCalibrationPoints = (DegreeWidth + 1) * (DegreeRatio + 1)
)

// SplineModel interpolates the insert factor at each test point from a
// degree-(2,1) bivariate spline fitted to the calibration set. The fit
// domain is the union of the calibration and query ranges, so test
// points outside the measured range are extrapolated. The result has
// the same length as the query slices.
//
// The returned factors are ungated; use SplineModelWithDeformability to
// suppress predictions the calibration data cannot support.
func SplineModel(widthTest, ratioTest []float64, cal CalibrationSet) ([]float64, error) {
	if len(widthTest) != len(ratioTest) {
		return nil, fmt.Errorf("%w: widthTest=%d ratioTest=%d",
			ErrShapeMismatch, len(widthTest), len(ratioTest))
	}
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	if len(widthTest) == 0 {
		return []float64{}, nil
	}

	bounds := FitBounds(cal.Width, cal.RatioPerimArea, widthTest, ratioTest)
	surf, err := fitCalibration(cal, bounds)
	if err != nil {
		return nil, err
	}
	return surf.Eval(widthTest, ratioTest), nil
}

// SplineModelAt is the scalar form of SplineModel.
func SplineModelAt(width, ratio float64, cal CalibrationSet) (float64, error) {
	factors, err := SplineModel([]float64{width}, []float64{ratio}, cal)
	if err != nil {
		return 0, err
	}
	return factors[0], nil
}

// fitCalibration fits the model surface to the calibration set over an
// explicit fit domain.
func fitCalibration(cal CalibrationSet, b Bounds) (*bspline.Surface, error) {
	surf, err := bspline.FitSurface(
		cal.Width, cal.RatioPerimArea, cal.Factor,
		DegreeWidth, DegreeRatio,
		bspline.Bounds{MinX: b.MinWidth, MaxX: b.MaxWidth, MinY: b.MinRatio, MaxY: b.MaxRatio},
		0,
	)
	if err != nil {
		Opsf("spline fit failed for %d calibration points: %v", cal.Len(), err)
		return nil, fmt.Errorf("%w: %v", ErrDegenerateData, err)
	}
	Diagf("fitted degree-(%d,%d) surface to %d points, width [%g, %g] ratio [%g, %g]",
		DegreeWidth, DegreeRatio, cal.Len(), b.MinWidth, b.MaxWidth, b.MinRatio, b.MaxRatio)
	return surf, nil
}
