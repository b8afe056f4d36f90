// Package spectralsolver computes white-balance multipliers and an
// IDT matrix from measured camera spectral sensitivities, an
// illuminant spectral power distribution, a standard observer, and a
// reflectance training set. Grounded on the SpectralSolver class and
// its free functions (scaleLSC, calWB, calTI, calRGB, calXYZ,
// curveFit) in rawtoaces_core.cpp.
package spectralsolver

import (
	"fmt"
	"log"

	"github.com/rta-go/colorcore/internal/rterrors"
	"github.com/rta-go/colorcore/internal/rtio"
	"github.com/rta-go/colorcore/pkg/illuminant"
	"github.com/rta-go/colorcore/pkg/rtspectrum"
)

var identityIDT = [3][3]float64{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Solver holds the camera/illuminant/observer/training inputs and the
// WB multipliers and IDT matrix it has computed from them. Each
// instance is independent; there is no shared state between solvers.
type Solver struct {
	Verbosity int

	searchDirs []string

	camera       rtspectrum.SpectralData
	illuminant   rtspectrum.SpectralData
	observer     rtspectrum.SpectralData
	trainingData rtspectrum.SpectralData

	wbMultipliers [3]float64
	idtMatrix     [3][3]float64

	// allIlluminants is the best-match search's candidate pool,
	// instance-local and built lazily on first use.
	allIlluminants []rtspectrum.SpectralData
}

// New returns a Solver that will search searchDirs for database files.
func New(searchDirs []string) *Solver {
	return &Solver{
		searchDirs:    searchDirs,
		wbMultipliers: [3]float64{1.0, 1.0, 1.0},
		idtMatrix:     identityIDT,
	}
}

// SetObserver installs the standard observer (CIE color-matching
// functions) SpectralData directly, bypassing database search; the
// observer is ordinarily supplied once per process rather than looked
// up per image.
func (s *Solver) SetObserver(d rtspectrum.SpectralData) {
	s.observer = d
}

// SetTrainingData installs the reflectance training set directly.
func (s *Solver) SetTrainingData(d rtspectrum.SpectralData) {
	s.trainingData = d
}

// FindCamera searches the "camera" database files for the first whose
// manufacturer and model match case-insensitively, loading it into the
// camera slot.
func (s *Solver) FindCamera(make_, model string) error {
	if make_ == "" || model == "" {
		return rterrors.New("spectralsolver.FindCamera", rterrors.DomainRange,
			fmt.Errorf("make and model must be non-empty"))
	}

	files := rtio.CollectDataFiles(s.searchDirs, "camera", s.Verbosity > 0)
	for _, f := range files {
		d, err := rtio.LoadSpectralData(f)
		if err != nil {
			continue
		}
		if d.MatchesCamera(make_, model) {
			s.camera = d
			return nil
		}
	}
	return rterrors.New("spectralsolver.FindCamera", rterrors.Unmatched,
		fmt.Errorf("no camera matching %s/%s", make_, model))
}

// FindIlluminant resolves tag (daylight, blackbody, or a database tag)
// into the illuminant slot.
func (s *Solver) FindIlluminant(tag string) error {
	d, err := illuminant.Find(tag, s.searchDirs)
	if err != nil {
		return err
	}
	s.illuminant = d
	return nil
}

// FindIlluminantByWB performs the best-illuminant search: lazily
// builds the candidate pool, then picks the candidate whose computed
// WB multipliers have the lowest SSE against wb.
func (s *Solver) FindIlluminantByWB(wb [3]float64) error {
	if len(s.camera.Main()) != 3 {
		return rterrors.New("spectralsolver.FindIlluminantByWB", rterrors.NotConfigured,
			fmt.Errorf("camera must be initialized with 3 channels before find_illuminant(wb)"))
	}

	if len(s.allIlluminants) == 0 {
		s.allIlluminants = illuminant.BuildCandidatePool(s.searchDirs)
	}

	bestSSE := -1.0
	var bestWB [3]float64
	bestIdx := -1

	for i := range s.allIlluminants {
		cand := &s.allIlluminants[i]
		wbTmp, err := calculateWB(s.camera, cand)
		if err != nil {
			continue
		}
		sse := sseVec3(wbTmp, wb)
		if bestIdx == -1 || sse < bestSSE {
			bestSSE = sse
			bestWB = wbTmp
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return rterrors.New("spectralsolver.FindIlluminantByWB", rterrors.Unmatched,
			fmt.Errorf("no candidate illuminant produced a usable WB"))
	}

	s.illuminant = s.allIlluminants[bestIdx]
	s.wbMultipliers = bestWB

	if s.Verbosity > 1 {
		log.Printf("best-match illuminant: %s", s.illuminant.Illuminant)
	}
	return nil
}

func sseVec3(candidate, target [3]float64) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := candidate[i]/target[i] - 1.0
		sum += d * d
	}
	return sum
}

// CalculateWB sets the solver's WB multipliers from the camera and
// illuminant slots, scaling the illuminant's power channel in place.
func (s *Solver) CalculateWB() error {
	if len(s.camera.Main()) != 3 {
		return rterrors.New("spectralsolver.CalculateWB", rterrors.NotConfigured,
			fmt.Errorf("camera needs to be initialized prior to calculate_WB"))
	}
	if len(s.illuminant.Main()) != 1 {
		return rterrors.New("spectralsolver.CalculateWB", rterrors.NotConfigured,
			fmt.Errorf("illuminant needs to be initialized prior to calculate_WB"))
	}

	wb, err := calculateWB(s.camera, &s.illuminant)
	if err != nil {
		return err
	}
	s.wbMultipliers = wb
	return nil
}

// calculateWB implements scaleLSC followed by the R/G/B integral
// ratio, mutating illuminant's power channel in place (matching the
// legacy reference-semantics decision for illuminant scaling).
func calculateWB(camera rtspectrum.SpectralData, illum *rtspectrum.SpectralData) ([3]float64, error) {
	if err := scaleIlluminant(camera, illum); err != nil {
		return [3]float64{}, err
	}

	camR, err := camera.Channel("R")
	if err != nil {
		return [3]float64{}, err
	}
	camG, err := camera.Channel("G")
	if err != nil {
		return [3]float64{}, err
	}
	camB, err := camera.Channel("B")
	if err != nil {
		return [3]float64{}, err
	}
	power, err := illum.Channel("power")
	if err != nil {
		return [3]float64{}, err
	}

	r, err := integrateProduct(camR, power)
	if err != nil {
		return [3]float64{}, err
	}
	g, err := integrateProduct(camG, power)
	if err != nil {
		return [3]float64{}, err
	}
	b, err := integrateProduct(camB, power)
	if err != nil {
		return [3]float64{}, err
	}

	return [3]float64{g / r, 1.0, g / b}, nil
}

// scaleIlluminant picks the camera channel with the largest spectral
// maximum and scales illum's power channel so that channel's
// integrated response against the illuminant becomes unity. Mirrors
// scaleLSC.
func scaleIlluminant(camera rtspectrum.SpectralData, illum *rtspectrum.SpectralData) error {
	maxR, err := mustMax(camera, "R")
	if err != nil {
		return err
	}
	maxG, err := mustMax(camera, "G")
	if err != nil {
		return err
	}
	maxB, err := mustMax(camera, "B")
	if err != nil {
		return err
	}

	maxChannel := "B"
	switch {
	case maxR >= maxG && maxR >= maxB:
		maxChannel = "R"
	case maxG >= maxR && maxG >= maxB:
		maxChannel = "G"
	}

	camSpec, err := camera.Channel(maxChannel)
	if err != nil {
		return err
	}
	power, err := illum.Channel("power")
	if err != nil {
		return err
	}

	product, err := camSpec.Multiply(power)
	if err != nil {
		return err
	}
	scale := 1.0 / product.Integrate()

	return illum.ScaleChannel("power", scale)
}

func mustMax(d rtspectrum.SpectralData, channel string) (float64, error) {
	sp, err := d.Channel(channel)
	if err != nil {
		return 0, err
	}
	return sp.Max()
}

func integrateProduct(a, b rtspectrum.Spectrum) (float64, error) {
	product, err := a.Multiply(b)
	if err != nil {
		return 0, err
	}
	return product.Integrate(), nil
}

// GetIDTMatrix returns the solver's most recently computed IDT matrix.
func (s *Solver) GetIDTMatrix() [3][3]float64 {
	return s.idtMatrix
}

// GetWBMultipliers returns the solver's most recently computed WB
// multipliers.
func (s *Solver) GetWBMultipliers() [3]float64 {
	return s.wbMultipliers
}
