package spectralsolver

import (
	"math"
	"testing"

	"github.com/rta-go/colorcore/internal/rterrors"
	"github.com/rta-go/colorcore/pkg/rtspectrum"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func toyCamera() rtspectrum.SpectralData {
	d := rtspectrum.NewSpectralData()
	d.Manufacturer, d.Model = "toy", "cam"
	d.SetMain([]rtspectrum.Channel{
		{Name: "R", Data: rtspectrum.Spectrum{Start: 500, End: 520, Step: 10, Values: []float64{1, 2, 3}}},
		{Name: "G", Data: rtspectrum.Spectrum{Start: 500, End: 520, Step: 10, Values: []float64{2, 3, 4}}},
		{Name: "B", Data: rtspectrum.Spectrum{Start: 500, End: 520, Step: 10, Values: []float64{3, 2, 1}}},
	})
	return d
}

func toyIlluminant(power []float64) rtspectrum.SpectralData {
	d := rtspectrum.NewSpectralData()
	d.Illuminant = "toy"
	d.SetMain([]rtspectrum.Channel{
		{Name: "power", Data: rtspectrum.Spectrum{Start: 500, End: 520, Step: 10, Values: power}},
	})
	return d
}

// Invariant #4: calculate_WB(camera, illuminant)[1] == 1.0 exactly, and
// scaling the illuminant in place leaves the returned WB unchanged.
func TestCalculateWBGreenIsUnityAndScaleInvariant(t *testing.T) {
	camera := toyCamera()

	illumA := toyIlluminant([]float64{1, 1, 1})
	wbA, err := calculateWB(camera, &illumA)
	if err != nil {
		t.Fatal(err)
	}
	if wbA[1] != 1.0 {
		t.Fatalf("wb[1] = %v, want exactly 1.0", wbA[1])
	}

	illumB := toyIlluminant([]float64{5, 5, 5})
	wbB, err := calculateWB(camera, &illumB)
	if err != nil {
		t.Fatal(err)
	}

	for i := range wbA {
		if !almostEqual(wbA[i], wbB[i], 1e-12) {
			t.Fatalf("wb differs under illuminant pre-scaling: %v vs %v", wbA, wbB)
		}
	}
}

func TestCalculateWBRequiresConfiguredCameraAndIlluminant(t *testing.T) {
	s := New(nil)
	if err := s.CalculateWB(); err == nil {
		t.Fatal("expected NotConfigured error with no camera/illuminant set")
	} else if !rterrors.Is(err, rterrors.Sentinel(rterrors.NotConfigured)) {
		t.Fatalf("expected NotConfigured kind, got %v", err)
	}

	s2 := New(nil)
	s2.camera = toyCamera()
	if err := s2.CalculateWB(); err == nil {
		t.Fatal("expected NotConfigured error with no illuminant set")
	}
}

func TestFindCameraRejectsEmptyArgs(t *testing.T) {
	s := New(nil)
	if err := s.FindCamera("", "model"); err == nil {
		t.Fatal("expected DomainRange error for empty make")
	}
	if err := s.FindCamera("make", ""); err == nil {
		t.Fatal("expected DomainRange error for empty model")
	}
}

func TestFindIlluminantByWBRequiresCamera(t *testing.T) {
	s := New(nil)
	if err := s.FindIlluminantByWB([3]float64{1, 1, 1}); err == nil {
		t.Fatal("expected NotConfigured error with no camera set")
	}
}

func TestCalculateIDTMatrixRequiresAllInputs(t *testing.T) {
	s := New(nil)
	if err := s.CalculateIDTMatrix(); err == nil {
		t.Fatal("expected NotConfigured error with nothing configured")
	}

	s.camera = toyCamera()
	if err := s.CalculateIDTMatrix(); err == nil {
		t.Fatal("expected NotConfigured error with no illuminant set")
	}

	s.illuminant = toyIlluminant([]float64{1, 1, 1})
	if err := s.CalculateIDTMatrix(); err == nil {
		t.Fatal("expected NotConfigured error with no observer set")
	}
}

func TestBuildCandidateIDTRowsSumToOne(t *testing.T) {
	b := [6]float64{0.8, 0.15, -0.1, 1.2, 0.05, -0.2}
	idt := buildCandidateIDT(b)
	for i, row := range idt {
		sum := row[0] + row[1] + row[2]
		if !almostEqual(sum, 1.0, 1e-12) {
			t.Fatalf("row %d sums to %v, want 1.0 (row=%v)", i, sum, row)
		}
	}
}

func TestGetIDTMatrixDefaultsToIdentity(t *testing.T) {
	s := New(nil)
	got := s.GetIDTMatrix()
	if got != identityIDT {
		t.Fatalf("GetIDTMatrix() on fresh solver = %v, want identity", got)
	}
}
