package insertfactor

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// PercentPredictionDifferences runs leave-one-out cross-validation over
// the calibration set: each point is removed in turn, the gated model
// is fitted to the remainder and evaluated at the removed point, and
// the difference is reported as a percentage of the measured factor.
// Entry i is 100*(Factor[i]-prediction)/Factor[i]; a point whose
// prediction is not valid yields NaN.
//
// A zero measured factor produces a non-finite entry through IEEE
// division; screen zero factors out before using this diagnostic.
func PercentPredictionDifferences(cal CalibrationSet) ([]float64, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	// Every fold fits n-1 points, so one extra point is needed on top
	// of the fit minimum.
	if cal.Len() <= MinCalibrationPoints {
		return nil, fmt.Errorf("%w: leave-one-out needs more than %d calibration points, have %d",
			ErrDegenerateData, MinCalibrationPoints, cal.Len())
	}

	diffs := make([]float64, cal.Len())
	for i := range diffs {
		prediction, err := SplineModelWithDeformabilityAt(
			cal.Width[i], cal.RatioPerimArea[i], cal.without(i))
		if err != nil {
			return nil, err
		}
		diffs[i] = 100 * (cal.Factor[i] - prediction) / cal.Factor[i]
	}
	return diffs, nil
}

// ValidationSummary aggregates a leave-one-out cross-validation run.
type ValidationSummary struct {
	N           int // folds in total
	OutOfRegion int // folds whose prediction was not valid (NaN entries)
	NonFinite   int // folds ruined by a zero measured factor (Inf entries)

	// Statistics over the remaining finite entries, in percent.
	MeanPct   float64
	StdDevPct float64
	MedianPct float64
	MaxAbsPct float64
}

// SummarizeValidation reduces the output of
// PercentPredictionDifferences to summary statistics over the finite
// entries.
func SummarizeValidation(diffs []float64) ValidationSummary {
	s := ValidationSummary{N: len(diffs)}

	finite := make([]float64, 0, len(diffs))
	for _, d := range diffs {
		switch {
		case math.IsNaN(d):
			s.OutOfRegion++
		case math.IsInf(d, 0):
			s.NonFinite++
		default:
			finite = append(finite, d)
		}
	}
	if len(finite) == 0 {
		return s
	}

	s.MeanPct = stat.Mean(finite, nil)
	if len(finite) > 1 {
		s.StdDevPct = stat.StdDev(finite, nil)
	}
	sort.Float64s(finite)
	s.MedianPct = stat.Quantile(0.5, stat.Empirical, finite, nil)
	for _, d := range finite {
		if a := math.Abs(d); a > s.MaxAbsPct {
			s.MaxAbsPct = a
		}
	}
	return s
}
