package insertfactor

import (
	"errors"
	"math"
	"testing"
)

// testFactor is the smooth surface the fixture factors lie on. It is
// inside the degree-(2,1) spline space, so model predictions over the
// fixture should reproduce it closely.
func testFactor(width, ratio float64) float64 {
	return 1.0 - 0.06*ratio + 0.002*width
}

// testCalibration returns a measured-style calibration set: circular
// inserts plus 2:1 and 1.5:1 rectangular cutouts across 3-9 cm widths,
// factors lying on the testFactor surface.
func testCalibration() CalibrationSet {
	var cal CalibrationSet
	add := func(width, ratio float64) {
		cal.Width = append(cal.Width, width)
		cal.RatioPerimArea = append(cal.RatioPerimArea, ratio)
		cal.Factor = append(cal.Factor, testFactor(width, ratio))
	}

	for d := 3.0; d <= 9.0; d++ {
		add(d, 4/d) // circle, diameter d
	}
	for a := 3.0; a <= 9.0; a++ {
		add(a, 3/a) // rectangle a x 2a
	}
	for a := 3.0; a <= 7.0; a++ {
		add(a, 10/(3*a)) // rectangle a x 1.5a
	}
	return cal
}

func TestCalibrationSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		cal     CalibrationSet
		wantErr error
	}{
		{
			name:    "valid set",
			cal:     testCalibration(),
			wantErr: nil,
		},
		{
			name: "ratio length differs",
			cal: CalibrationSet{
				Width:          []float64{3, 4, 5, 6, 7, 8},
				RatioPerimArea: []float64{1.3, 1.0, 0.8},
				Factor:         []float64{0.95, 0.96, 0.97, 0.98, 0.98, 0.99},
			},
			wantErr: ErrShapeMismatch,
		},
		{
			name: "factor length differs",
			cal: CalibrationSet{
				Width:          []float64{3, 4, 5, 6, 7, 8},
				RatioPerimArea: []float64{1.3, 1.0, 0.8, 0.7, 0.6, 0.5},
				Factor:         []float64{0.95},
			},
			wantErr: ErrShapeMismatch,
		},
		{
			name: "too few points",
			cal: CalibrationSet{
				Width:          []float64{3, 4, 5, 6, 7},
				RatioPerimArea: []float64{1.3, 1.0, 0.8, 0.7, 0.6},
				Factor:         []float64{0.95, 0.96, 0.97, 0.98, 0.98},
			},
			wantErr: ErrDegenerateData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cal.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalibrationSetWithout(t *testing.T) {
	cal := testCalibration()
	const drop = 4

	sub := cal.without(drop)
	if sub.Len() != cal.Len()-1 {
		t.Fatalf("without(%d) has %d points, want %d", drop, sub.Len(), cal.Len()-1)
	}
	for j := 0; j < sub.Len(); j++ {
		src := j
		if j >= drop {
			src = j + 1
		}
		if sub.Width[j] != cal.Width[src] || sub.RatioPerimArea[j] != cal.RatioPerimArea[src] || sub.Factor[j] != cal.Factor[src] {
			t.Errorf("without(%d) entry %d does not match source entry %d", drop, j, src)
		}
	}
}

func TestCalibrationSetWithPoint(t *testing.T) {
	cal := testCalibration()
	aug := cal.withPoint(5.5, 0.72, 0.968)

	if aug.Len() != cal.Len()+1 {
		t.Fatalf("withPoint gives %d points, want %d", aug.Len(), cal.Len()+1)
	}
	last := aug.Len() - 1
	if aug.Width[last] != 5.5 || aug.RatioPerimArea[last] != 0.72 || aug.Factor[last] != 0.968 {
		t.Errorf("appended point = (%v, %v, %v), want (5.5, 0.72, 0.968)",
			aug.Width[last], aug.RatioPerimArea[last], aug.Factor[last])
	}
	// The receiver must not be mutated.
	if cal.Len() != aug.Len()-1 {
		t.Errorf("withPoint mutated the receiver")
	}
}

func TestFitBounds(t *testing.T) {
	cal := testCalibration()

	tests := []struct {
		name           string
		queryW, queryR []float64
	}{
		{"query inside data range", []float64{5, 6}, []float64{0.7, 0.6}},
		{"query wider than data", []float64{1, 100}, []float64{0.04, 2.0}},
		{"query wide on one axis only", []float64{5}, []float64{3.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FitBounds(cal.Width, cal.RatioPerimArea, tt.queryW, tt.queryR)

			contains := func(vals []float64, lo, hi float64) bool {
				for _, v := range vals {
					if v < lo || v > hi {
						return false
					}
				}
				return true
			}
			if !contains(cal.Width, b.MinWidth, b.MaxWidth) || !contains(tt.queryW, b.MinWidth, b.MaxWidth) {
				t.Errorf("width bounds [%v, %v] do not contain data and query", b.MinWidth, b.MaxWidth)
			}
			if !contains(cal.RatioPerimArea, b.MinRatio, b.MaxRatio) || !contains(tt.queryR, b.MinRatio, b.MaxRatio) {
				t.Errorf("ratio bounds [%v, %v] do not contain data and query", b.MinRatio, b.MaxRatio)
			}
			if math.IsNaN(b.MinWidth) || math.IsNaN(b.MaxRatio) {
				t.Errorf("bounds contain NaN: %+v", b)
			}
		})
	}
}
