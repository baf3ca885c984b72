package insertfactor

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// Deformability test constants — fixed by the published methodology,
// not user-tunable.
const (
	// Deviation is the shift applied to the surface at the test point
	// by the deformability test.
	Deviation = 0.02
	// DeformabilityLimit is the score above which a prediction lies
	// outside the model's valid region and is reported as not valid.
	DeformabilityLimit = 0.5
)

// DeformabilityAt runs the deformability test for a single test point.
//
// The test fits the surface, appends an outlier at the test point
// shifted by ±Deviation from the fitted value, refits, and measures how
// much of the shift the surface reproduced at that point. A score near
// 0 means the surrounding calibration data strongly constrains the fit;
// a score near 1 means the test point is effectively unconstrained and
// the model cannot be trusted there.
func DeformabilityAt(widthTest, ratioTest float64, cal CalibrationSet) (float64, error) {
	if err := cal.Validate(); err != nil {
		return 0, err
	}

	// The fit domain includes the test point so the baseline and the
	// two shifted fits share the same support.
	bounds := FitBounds(cal.Width, cal.RatioPerimArea,
		[]float64{widthTest}, []float64{ratioTest})

	surf, err := fitCalibration(cal, bounds)
	if err != nil {
		return 0, err
	}
	baseline := surf.At(widthTest, ratioTest)

	posSurf, err := fitCalibration(cal.withPoint(widthTest, ratioTest, baseline+Deviation), bounds)
	if err != nil {
		return 0, err
	}
	negSurf, err := fitCalibration(cal.withPoint(widthTest, ratioTest, baseline-Deviation), bounds)
	if err != nil {
		return 0, err
	}

	posSensitivity := (posSurf.At(widthTest, ratioTest) - baseline) / Deviation
	negSensitivity := (baseline - negSurf.At(widthTest, ratioTest)) / Deviation
	return math.Max(posSensitivity, negSensitivity), nil
}

// Deformability runs the deformability test element-wise over paired
// query slices. The result has the same length as the query.
func Deformability(widthTest, ratioTest []float64, cal CalibrationSet) ([]float64, error) {
	if len(widthTest) != len(ratioTest) {
		return nil, fmt.Errorf("%w: widthTest=%d ratioTest=%d",
			ErrShapeMismatch, len(widthTest), len(ratioTest))
	}
	if err := cal.Validate(); err != nil {
		return nil, err
	}

	scores := make([]float64, len(widthTest))
	for i := range widthTest {
		d, err := DeformabilityAt(widthTest[i], ratioTest[i], cal)
		if err != nil {
			return nil, err
		}
		scores[i] = d
	}
	return scores, nil
}

// DeformabilityGrid runs the deformability test element-wise over a 2-D
// query grid, preserving the grid shape in the output. Cells are
// independent, so the grid is evaluated by a bounded worker pool; the
// result is identical to sequential evaluation.
func DeformabilityGrid(widthTest, ratioTest [][]float64, cal CalibrationSet) ([][]float64, error) {
	rows, cols, err := gridShape(widthTest, ratioTest)
	if err != nil {
		return nil, err
	}
	if err := cal.Validate(); err != nil {
		return nil, err
	}

	scores := make([][]float64, rows)
	for i := range scores {
		scores[i] = make([]float64, cols)
	}
	cells := rows * cols
	if cells == 0 {
		return scores, nil
	}

	type cell struct{ i, j int }
	jobs := make(chan cell, cells)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			jobs <- cell{i, j}
		}
	}
	close(jobs)

	workers := runtime.NumCPU()
	if workers > cells {
		workers = cells
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				d, err := DeformabilityAt(widthTest[c.i][c.j], ratioTest[c.i][c.j], cal)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				scores[c.i][c.j] = d
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return scores, nil
}

// gridShape checks that both grids are rectangular and congruent and
// returns their common extents.
func gridShape(a, b [][]float64) (rows, cols int, err error) {
	if len(a) != len(b) {
		return 0, 0, fmt.Errorf("%w: %d rows vs %d rows", ErrShapeMismatch, len(a), len(b))
	}
	rows = len(a)
	if rows == 0 {
		return 0, 0, nil
	}
	cols = len(a[0])
	for i := 0; i < rows; i++ {
		if len(a[i]) != cols || len(b[i]) != cols {
			return 0, 0, fmt.Errorf("%w: row %d has %d/%d columns, want %d",
				ErrShapeMismatch, i, len(a[i]), len(b[i]), cols)
		}
	}
	return rows, cols, nil
}
