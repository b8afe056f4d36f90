// Package rtmath is the dense linear-algebra kernel the solvers build
// on: general M×K × K×N multiply, 3×3 inverse, transpose, elementwise
// product, diagonalization and a 2D cross product. It is a thin,
// error-checked layer over gonum.org/v1/gonum/mat, in the same spirit
// as the teacher's emath package wrapping golang.org/x/image/math/f64
// for small fixed-size matrices (pkg/emath/affine.go) — generalized
// here to the dynamic M×K shapes the color-science solvers need.
package rtmath

import (
	"fmt"

	"github.com/rta-go/colorcore/internal/rterrors"
	"gonum.org/v1/gonum/mat"
)

// Mul multiplies an M×K matrix (row-major, m rows) by a K×N matrix
// (row-major, k rows), both expressed as flat row-major slices, and
// returns the M×N row-major result.
func Mul(a []float64, m, k int, b []float64, k2, n int) ([]float64, error) {
	if k != k2 {
		return nil, rterrors.New("rtmath.Mul", rterrors.DataShape,
			fmt.Errorf("inner dimensions %d != %d", k, k2))
	}
	if len(a) != m*k {
		return nil, rterrors.New("rtmath.Mul", rterrors.DataShape,
			fmt.Errorf("a has %d elements, want %d", len(a), m*k))
	}
	if len(b) != k*n {
		return nil, rterrors.New("rtmath.Mul", rterrors.DataShape,
			fmt.Errorf("b has %d elements, want %d", len(b), k*n))
	}

	ma := mat.NewDense(m, k, append([]float64(nil), a...))
	mb := mat.NewDense(k, n, append([]float64(nil), b...))
	var mc mat.Dense
	mc.Mul(ma, mb)

	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = mc.At(i, j)
		}
	}
	return out, nil
}

// MulVec multiplies an M×K row-major matrix by a length-K vector,
// returning a length-M vector.
func MulVec(a []float64, m, k int, v []float64) ([]float64, error) {
	if len(v) != k {
		return nil, rterrors.New("rtmath.MulVec", rterrors.DataShape,
			fmt.Errorf("vector has %d elements, want %d", len(v), k))
	}
	out, err := Mul(a, m, k, v, k, 1)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Invert3x3 inverts a 3×3 row-major matrix. Inversion assumes a
// well-conditioned, rank-3 input; no pivoting strategy is mandated.
func Invert3x3(a []float64) ([]float64, error) {
	if len(a) != 9 {
		return nil, rterrors.New("rtmath.Invert3x3", rterrors.DataShape,
			fmt.Errorf("expected 9 elements, got %d", len(a)))
	}
	m := mat.NewDense(3, 3, append([]float64(nil), a...))
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, rterrors.New("rtmath.Invert3x3", rterrors.DataShape, err)
	}
	out := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i*3+j] = inv.At(i, j)
		}
	}
	return out, nil
}

// InvertSquare inverts an n×n row-major matrix, n arbitrary.
func InvertSquare(a []float64, n int) ([]float64, error) {
	if len(a) != n*n {
		return nil, rterrors.New("rtmath.InvertSquare", rterrors.DataShape,
			fmt.Errorf("expected %d elements, got %d", n*n, len(a)))
	}
	m := mat.NewDense(n, n, append([]float64(nil), a...))
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, rterrors.New("rtmath.InvertSquare", rterrors.DataShape, err)
	}
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = inv.At(i, j)
		}
	}
	return out, nil
}

// Transpose transposes an M×N row-major matrix into an N×M row-major
// result.
func Transpose(a []float64, m, n int) ([]float64, error) {
	if len(a) != m*n {
		return nil, rterrors.New("rtmath.Transpose", rterrors.DataShape,
			fmt.Errorf("expected %d elements, got %d", m*n, len(a)))
	}
	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out[j*m+i] = a[i*n+j]
		}
	}
	return out, nil
}

// ElementwiseMul multiplies two equal-length vectors element by
// element.
func ElementwiseMul(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, rterrors.New("rtmath.ElementwiseMul", rterrors.DataShape,
			fmt.Errorf("length mismatch %d != %d", len(a), len(b)))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out, nil
}

// Diag places a vector on the diagonal of a square matrix, returned
// row-major.
func Diag(v []float64) []float64 {
	n := len(v)
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		out[i*n+i] = v[i]
	}
	return out
}

// Cross2D computes the scalar 2D cross product x1*y2 - x2*y1 of two
// length-2 vectors.
func Cross2D(a, b []float64) (float64, error) {
	if len(a) != 2 || len(b) != 2 {
		return 0, rterrors.New("rtmath.Cross2D", rterrors.DataShape,
			fmt.Errorf("both vectors must have length 2"))
	}
	return a[0]*b[1] - a[1]*b[0], nil
}

// AddVectors returns the elementwise sum of two equal-length vectors.
func AddVectors(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, rterrors.New("rtmath.AddVectors", rterrors.DataShape,
			fmt.Errorf("length mismatch %d != %d", len(a), len(b)))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out, nil
}

// SubVectors returns the elementwise difference a - b of two
// equal-length vectors.
func SubVectors(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, rterrors.New("rtmath.SubVectors", rterrors.DataShape,
			fmt.Errorf("length mismatch %d != %d", len(a), len(b)))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out, nil
}

// ScaleVector scales a vector by a scalar in place.
func ScaleVector(v []float64, scale float64) {
	for i := range v {
		v[i] *= scale
	}
}

// Sum returns the sum of a vector's elements.
func Sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// Mat3FromRows flattens a [3][3]float64 into a row-major length-9
// slice, the shape the rest of this package operates on.
func Mat3FromRows(m [3][3]float64) []float64 {
	return []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}
}

// RowsFromMat3 unflattens a row-major length-9 slice into [3][3]float64.
func RowsFromMat3(m []float64) [3][3]float64 {
	return [3][3]float64{
		{m[0], m[1], m[2]},
		{m[3], m[4], m[5]},
		{m[6], m[7], m[8]},
	}
}
