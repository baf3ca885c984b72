package insertfactor

import "math"

// NotValid reports whether a prediction entry is the not-valid marker.
// Predictions whose deformability exceeds DeformabilityLimit are
// returned as NaN; that is a defined output meaning "outside the
// model's trusted region", not an error.
func NotValid(factor float64) bool { return math.IsNaN(factor) }

// SplineModelWithDeformability predicts the insert factor at each test
// point and replaces predictions whose deformability exceeds
// DeformabilityLimit with the not-valid marker. The result has the same
// length as the query slices; valid entries equal the ungated
// SplineModel output exactly.
func SplineModelWithDeformability(widthTest, ratioTest []float64, cal CalibrationSet) ([]float64, error) {
	scores, err := Deformability(widthTest, ratioTest, cal)
	if err != nil {
		return nil, err
	}
	factors, err := SplineModel(widthTest, ratioTest, cal)
	if err != nil {
		return nil, err
	}
	for i, score := range scores {
		if score > DeformabilityLimit {
			factors[i] = math.NaN()
		}
	}
	return factors, nil
}

// SplineModelWithDeformabilityAt is the scalar form of
// SplineModelWithDeformability.
func SplineModelWithDeformabilityAt(width, ratio float64, cal CalibrationSet) (float64, error) {
	factors, err := SplineModelWithDeformability([]float64{width}, []float64{ratio}, cal)
	if err != nil {
		return 0, err
	}
	return factors[0], nil
}

// SplineModelWithDeformabilityGrid is the 2-D form of
// SplineModelWithDeformability. The whole grid shares one fit domain,
// exactly as a flattened 1-D query would.
func SplineModelWithDeformabilityGrid(widthTest, ratioTest [][]float64, cal CalibrationSet) ([][]float64, error) {
	rows, cols, err := gridShape(widthTest, ratioTest)
	if err != nil {
		return nil, err
	}

	scores, err := DeformabilityGrid(widthTest, ratioTest, cal)
	if err != nil {
		return nil, err
	}

	flatWidth := make([]float64, 0, rows*cols)
	flatRatio := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		flatWidth = append(flatWidth, widthTest[i]...)
		flatRatio = append(flatRatio, ratioTest[i]...)
	}
	flat, err := SplineModel(flatWidth, flatRatio, cal)
	if err != nil {
		return nil, err
	}

	factors := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		factors[i] = flat[i*cols : (i+1)*cols : (i+1)*cols]
		for j := 0; j < cols; j++ {
			if scores[i][j] > DeformabilityLimit {
				factors[i][j] = math.NaN()
			}
		}
	}
	return factors, nil
}
