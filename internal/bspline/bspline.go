// Package bspline fits tensor-product B-spline surfaces to scattered
// (x, y, z) samples by least squares and evaluates them at arbitrary
// points. Knot vectors are clamped to a caller-supplied rectangular
// domain with no interior knots, so a degree-(kx, ky) surface is a
// single polynomial patch with (kx+1)*(ky+1) coefficients.
package bspline

// Bounds is the rectangular domain the surface is defined over.
type Bounds struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// clampedKnots returns the clamped knot vector of the given degree over
// [lo, hi] with no interior knots: degree+1 copies of each endpoint.
func clampedKnots(lo, hi float64, degree int) []float64 {
	knots := make([]float64, 2*(degree+1))
	for i := 0; i <= degree; i++ {
		knots[i] = lo
		knots[len(knots)-1-i] = hi
	}
	return knots
}

// basis is a univariate B-spline basis over a clamped knot vector.
type basis struct {
	knots  []float64
	degree int
}

func newBasis(lo, hi float64, degree int) basis {
	return basis{knots: clampedKnots(lo, hi, degree), degree: degree}
}

// count returns the number of basis functions.
func (b basis) count() int { return len(b.knots) - b.degree - 1 }

// span returns the index of the knot span containing x. The index is
// clamped to the valid range, so an out-of-domain x is evaluated on the
// boundary span and extrapolates that span's polynomial.
func (b basis) span(x float64) int {
	s := b.degree
	hi := b.count() - 1
	for s < hi && x >= b.knots[s+1] {
		s++
	}
	return s
}

// values computes the degree+1 basis functions that are non-zero on the
// given span, evaluated at x (Cox-de Boor recursion). Entry i is the
// value of basis function span-degree+i.
func (b basis) values(span int, x float64) []float64 {
	k := b.degree
	n := make([]float64, k+1)
	left := make([]float64, k+1)
	right := make([]float64, k+1)

	n[0] = 1
	for j := 1; j <= k; j++ {
		left[j] = x - b.knots[span+1-j]
		right[j] = b.knots[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			term := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*term
			saved = left[j-r] * term
		}
		n[j] = saved
	}
	return n
}
