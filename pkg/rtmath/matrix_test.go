package rtmath

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMul(t *testing.T) {
	a := []float64{1, 2, 3, 4} // 2x2
	b := []float64{5, 6, 7, 8} // 2x2
	got, err := Mul(a, 2, 2, b, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{19, 22, 43, 50}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Fatalf("Mul() = %v, want %v", got, want)
		}
	}
}

func TestMulShapeMismatch(t *testing.T) {
	_, err := Mul([]float64{1, 2}, 1, 2, []float64{1, 2, 3}, 3, 1)
	if err == nil {
		t.Fatal("expected error on inner-dimension mismatch")
	}
}

func TestInvert3x3RoundTrip(t *testing.T) {
	m := []float64{2, 0, 0, 0, 3, 0, 0, 0, 4}
	inv, err := Invert3x3(m)
	if err != nil {
		t.Fatal(err)
	}
	prod, err := Mul(m, 3, 3, inv, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	ident := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	for i := range ident {
		if !almostEqual(prod[i], ident[i], 1e-9) {
			t.Fatalf("m * inv(m) = %v, want identity", prod)
		}
	}
}

func TestCross2D(t *testing.T) {
	got, err := Cross2D([]float64{1, 0}, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 1.0, 1e-12) {
		t.Fatalf("Cross2D = %v, want 1.0", got)
	}
}

func TestCross2DWrongLength(t *testing.T) {
	_, err := Cross2D([]float64{1, 0, 0}, []float64{0, 1})
	if err == nil {
		t.Fatal("expected error for non-length-2 vector")
	}
}

func TestDiagAndTranspose(t *testing.T) {
	d := Diag([]float64{1, 2, 3})
	want := []float64{1, 0, 0, 0, 2, 0, 0, 0, 3}
	for i := range want {
		if d[i] != want[i] {
			t.Fatalf("Diag() = %v, want %v", d, want)
		}
	}

	m := []float64{1, 2, 3, 4, 5, 6} // 2x3
	transposed, err := Transpose(m, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	wantT := []float64{1, 4, 2, 5, 3, 6}
	for i := range wantT {
		if transposed[i] != wantT[i] {
			t.Fatalf("Transpose() = %v, want %v", transposed, wantT)
		}
	}
}

func TestMat3RowsRoundTrip(t *testing.T) {
	rows := [3][3]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	flat := Mat3FromRows(rows)
	back := RowsFromMat3(flat)
	if back != rows {
		t.Fatalf("RowsFromMat3(Mat3FromRows(rows)) = %v, want %v", back, rows)
	}
}

func TestScaleAndSumVectors(t *testing.T) {
	v := []float64{1, 2, 3}
	ScaleVector(v, 2)
	if v[0] != 2 || v[1] != 4 || v[2] != 6 {
		t.Fatalf("ScaleVector mutated to %v, want [2 4 6]", v)
	}
	if got := Sum(v); !almostEqual(got, 12, 1e-12) {
		t.Fatalf("Sum() = %v, want 12", got)
	}
}
