package metadatasolver

import (
	"math"
	"testing"

	"github.com/rta-go/colorcore/pkg/rtconst"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func closeRelative(a, b, pct float64) bool {
	if b == 0 {
		return a == 0
	}
	return math.Abs((a-b)/b)*100 <= pct
}

// E1. Metadata CCT from XYZ.
func TestXYZToColorTemperatureE1(t *testing.T) {
	xyz := [3]float64{0.9731171910, 1.0174927152, 0.9498565880}
	cct, err := XYZToColorTemperature(xyz)
	if err != nil {
		t.Fatal(err)
	}
	if !closeRelative(cct, 5564.6648479019, 1e-5) {
		t.Fatalf("XYZToColorTemperature(XYZ) = %v, want ~5564.6648479019", cct)
	}
}

func TestXYZToCameraWeightedMatrixLinearInterpolation(t *testing.T) {
	m1 := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	m2 := [9]float64{2, 0, 0, 0, 2, 0, 0, 0, 2}

	// mired1=100, mired2=200: weight = (mired1-mir)/(mired1-mired2)
	got := XYZToCameraWeightedMatrix(150, 100, 200, m1, m2)
	for i, v := range got {
		want := 1.5
		if i%4 != 0 {
			want = 0
		}
		if !almostEqual(v, want, 1e-12) {
			t.Fatalf("XYZToCameraWeightedMatrix midpoint = %v, want diag 1.5", got)
		}
	}

	atM1 := XYZToCameraWeightedMatrix(100, 100, 200, m1, m2)
	if atM1 != m1 {
		t.Fatalf("XYZToCameraWeightedMatrix(mired1) = %v, want m1 %v", atM1, m1)
	}
}

func TestXYZToCameraWeightedMatrixWeightClamped(t *testing.T) {
	m1 := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	m2 := [9]float64{3, 0, 0, 0, 3, 0, 0, 0, 3}

	// mir far outside [mired1, mired2] clamps weight to [0,1].
	got := XYZToCameraWeightedMatrix(1000, 100, 200, m1, m2)
	if got != m2 {
		t.Fatalf("clamped weight beyond mired2 = %v, want m2 %v", got, m2)
	}
}

func TestFindXYZToCameraMatrixZeroIlluminantReturnsUnmodified(t *testing.T) {
	wantMatrix := [9]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	s := New(Metadata{
		Calibration: [2]Calibration{
			{Illuminant: 0, XYZToRGBMatrix: wantMatrix},
			{Illuminant: 21},
		},
	})

	got, err := s.FindXYZToCameraMatrix([]float64{0.5, 1.0, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if got != wantMatrix {
		t.Fatalf("FindXYZToCameraMatrix with zero illuminant[0] = %v, want unmodified %v", got, wantMatrix)
	}
}

func TestFindXYZToCameraMatrixEmptyNeutralRGBReturnsUnmodified(t *testing.T) {
	wantMatrix := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	s := New(Metadata{
		Calibration: [2]Calibration{
			{Illuminant: 17, XYZToRGBMatrix: wantMatrix},
			{Illuminant: 21},
		},
	})

	got, err := s.FindXYZToCameraMatrix(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != wantMatrix {
		t.Fatalf("FindXYZToCameraMatrix with empty neutralRGB = %v, want unmodified %v", got, wantMatrix)
	}
}

func TestCalculateCATMatrixMapsCameraWhiteToACESWhite(t *testing.T) {
	// A plausible, well-conditioned pair of DNG-style calibration
	// matrices (identity-like, distinct illuminants) exercising the
	// full solve path without requiring exact reference fixture data.
	s := New(Metadata{
		Calibration: [2]Calibration{
			{Illuminant: 17, XYZToRGBMatrix: [9]float64{
				0.9, -0.2, -0.05,
				-0.4, 1.3, 0.1,
				-0.02, 0.05, 0.95,
			}},
			{Illuminant: 21, XYZToRGBMatrix: [9]float64{
				0.95, -0.25, -0.04,
				-0.45, 1.32, 0.09,
				-0.01, 0.04, 0.97,
			}},
		},
		NeutralRGB:       []float64{0.6289999865, 1.0, 0.7904000305},
		BaselineExposure: 0,
	})

	_, cameraWhite, err := s.GetCameraXYZMatrixAndWhitePoint()
	if err != nil {
		t.Fatal(err)
	}

	cat, err := s.CalculateCATMatrix()
	if err != nil {
		t.Fatal(err)
	}

	rgbToXYZ, err := MatrixRGBToXYZ(rtconst.ACESChromaticities)
	if err != nil {
		t.Fatal(err)
	}
	wantWhite := mulVec3(rgbToXYZ, [3]float64{1, 1, 1})

	got := mulVec3(mat3ToFlat(cat), cameraWhite)
	for i := range got {
		if !almostEqual(got[i], wantWhite[i], 1e-6) {
			t.Fatalf("CAT*cameraWhite = %v, want %v", got, wantWhite)
		}
	}
}

func mulVec3(m [9]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

func mat3ToFlat(m [3][3]float64) [9]float64 {
	return [9]float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}
}
