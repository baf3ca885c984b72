package bspline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Surface is a fitted tensor-product B-spline surface.
type Surface struct {
	x, y basis
	// coeff holds the coefficient grid row-major: coeff[i*ny+j] pairs
	// x-basis function i with y-basis function j.
	coeff []float64
}

// FitSurface computes the least-squares surface of the given degrees
// over bounds for the samples (x[i], y[i]) -> z[i]. ridge adds Tikhonov
// damping sqrt(ridge) on each coefficient; pass 0 for a plain
// least-squares fit.
//
// The system is solved by QR factorisation. A rank-deficient design
// (too few samples, or samples that do not span the basis, e.g.
// collinear data) surfaces as an error with no local recovery.
func FitSurface(x, y, z []float64, degX, degY int, bounds Bounds, ridge float64) (*Surface, error) {
	m := len(x)
	if len(y) != m || len(z) != m {
		return nil, fmt.Errorf("sample lengths differ: x=%d y=%d z=%d", m, len(y), len(z))
	}
	if !(bounds.MaxX > bounds.MinX) || !(bounds.MaxY > bounds.MinY) {
		return nil, fmt.Errorf("degenerate fit domain %+v", bounds)
	}

	bx := newBasis(bounds.MinX, bounds.MaxX, degX)
	by := newBasis(bounds.MinY, bounds.MaxY, degY)
	nx, ny := bx.count(), by.count()
	unknowns := nx * ny
	if m < unknowns {
		return nil, fmt.Errorf("degree-(%d,%d) fit needs at least %d samples, have %d", degX, degY, unknowns, m)
	}

	rows := m
	if ridge > 0 {
		rows += unknowns
	}
	a := mat.NewDense(rows, unknowns, nil)
	rhs := mat.NewVecDense(rows, nil)
	for p := 0; p < m; p++ {
		sx := bx.span(x[p])
		vx := bx.values(sx, x[p])
		sy := by.span(y[p])
		vy := by.values(sy, y[p])
		for i, bvx := range vx {
			ci := sx - degX + i
			for j, bvy := range vy {
				cj := sy - degY + j
				a.Set(p, ci*ny+cj, bvx*bvy)
			}
		}
		rhs.SetVec(p, z[p])
	}
	if ridge > 0 {
		lambda := math.Sqrt(ridge)
		for i := 0; i < unknowns; i++ {
			a.Set(m+i, i, lambda)
		}
	}

	var qr mat.QR
	qr.Factorize(a)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, rhs); err != nil {
		return nil, fmt.Errorf("surface solve: %w", err)
	}

	coeff := make([]float64, unknowns)
	for i := range coeff {
		coeff[i] = sol.At(i, 0)
	}
	return &Surface{x: bx, y: by, coeff: coeff}, nil
}

// At evaluates the surface at a single point. Points outside the fit
// domain continue the boundary span's polynomial.
func (s *Surface) At(x, y float64) float64 {
	sx := s.x.span(x)
	vx := s.x.values(sx, x)
	sy := s.y.span(y)
	vy := s.y.values(sy, y)

	ny := s.y.count()
	sum := 0.0
	for i, bvx := range vx {
		ci := sx - s.x.degree + i
		for j, bvy := range vy {
			cj := sy - s.y.degree + j
			sum += bvx * bvy * s.coeff[ci*ny+cj]
		}
	}
	return sum
}

// Eval evaluates the surface at each paired coordinate (xs[i], ys[i]).
func (s *Surface) Eval(xs, ys []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = s.At(xs[i], ys[i])
	}
	return out
}
