// Package insertfactor predicts electron insert factors for custom
// shielded electron treatment fields from the field's equivalent-ellipse
// width and its perimeter/area ratio. Predictions come from a smoothed
// bivariate spline fitted to measured calibration data, gated by a
// deformability test that reports not-valid for query points the
// calibration data cannot support.
package insertfactor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CalibrationSet holds the measured insert factor data for one
// applicator, energy and SSD combination. The three slices are parallel:
// entry i describes one measured insert.
type CalibrationSet struct {
	Width          []float64 // equivalent-ellipse widths (cm)
	RatioPerimArea []float64 // perimeter/area ratios (cm^-1)
	Factor         []float64 // measured insert factors
}

// Len returns the number of calibration points.
func (c CalibrationSet) Len() int { return len(c.Width) }

// Validate checks that the parallel slices agree in length and that the
// set is large enough to support a degree-(2,1) spline fit.
func (c CalibrationSet) Validate() error {
	if len(c.RatioPerimArea) != len(c.Width) || len(c.Factor) != len(c.Width) {
		return fmt.Errorf("%w: width=%d ratio=%d factor=%d",
			ErrShapeMismatch, len(c.Width), len(c.RatioPerimArea), len(c.Factor))
	}
	if c.Len() < MinCalibrationPoints {
		return fmt.Errorf("%w: %d calibration points, need at least %d",
			ErrDegenerateData, c.Len(), MinCalibrationPoints)
	}
	return nil
}

// without returns a copy of the set with calibration point i removed.
func (c CalibrationSet) without(i int) CalibrationSet {
	out := CalibrationSet{
		Width:          make([]float64, 0, c.Len()-1),
		RatioPerimArea: make([]float64, 0, c.Len()-1),
		Factor:         make([]float64, 0, c.Len()-1),
	}
	for j := 0; j < c.Len(); j++ {
		if j == i {
			continue
		}
		out.Width = append(out.Width, c.Width[j])
		out.RatioPerimArea = append(out.RatioPerimArea, c.RatioPerimArea[j])
		out.Factor = append(out.Factor, c.Factor[j])
	}
	return out
}

// withPoint returns a copy of the set with one extra calibration point.
func (c CalibrationSet) withPoint(width, ratio, factor float64) CalibrationSet {
	return CalibrationSet{
		Width:          append(append(make([]float64, 0, c.Len()+1), c.Width...), width),
		RatioPerimArea: append(append(make([]float64, 0, c.Len()+1), c.RatioPerimArea...), ratio),
		Factor:         append(append(make([]float64, 0, c.Len()+1), c.Factor...), factor),
	}
}

// Bounds is the rectangular fit domain in (width, ratio) space.
type Bounds struct {
	MinWidth float64
	MaxWidth float64
	MinRatio float64
	MaxRatio float64
}

// FitBounds returns the union of the calibration range and the query
// range on each axis. The fit domain always covers the evaluation
// domain, so queries beyond the measured range extrapolate rather than
// falling off the edge of the spline's support. All four slices must be
// non-empty.
func FitBounds(widthData, ratioData, widthTest, ratioTest []float64) Bounds {
	return Bounds{
		MinWidth: math.Min(floats.Min(widthData), floats.Min(widthTest)),
		MaxWidth: math.Max(floats.Max(widthData), floats.Max(widthTest)),
		MinRatio: math.Min(floats.Min(ratioData), floats.Min(ratioTest)),
		MaxRatio: math.Max(floats.Max(ratioData), floats.Max(ratioTest)),
	}
}
