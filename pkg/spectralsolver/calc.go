package spectralsolver

import (
	"fmt"
	"math"

	"github.com/rta-go/colorcore/internal/rterrors"
	"github.com/rta-go/colorcore/pkg/cat"
	"github.com/rta-go/colorcore/pkg/rtconst"
	"github.com/rta-go/colorcore/pkg/rtmath"
	"github.com/rta-go/colorcore/pkg/rtspectrum"

	"github.com/mdouchement/hdr/hdrcolor"
)

// calTI multiplies every training-patch Spectrum by the illuminant's
// power Spectrum, yielding one radiance Spectrum per patch.
func calTI(illum, trainingData rtspectrum.SpectralData) ([]rtspectrum.Spectrum, error) {
	power, err := illum.Channel("power")
	if err != nil {
		return nil, err
	}

	patches := trainingData.Main()
	result := make([]rtspectrum.Spectrum, 0, len(patches))
	for _, patch := range patches {
		product, err := patch.Data.Multiply(power)
		if err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, nil
}

// calRGB computes the white-balanced camera response for every
// training-patch radiance.
func calRGB(camera rtspectrum.SpectralData, wb [3]float64, ti []rtspectrum.Spectrum) ([][3]float64, error) {
	camR, err := camera.Channel("R")
	if err != nil {
		return nil, err
	}
	camG, err := camera.Channel("G")
	if err != nil {
		return nil, err
	}
	camB, err := camera.Channel("B")
	if err != nil {
		return nil, err
	}

	rgb := make([][3]float64, len(ti))
	for i, t := range ti {
		r, err := integrateProduct(t, camR)
		if err != nil {
			return nil, err
		}
		g, err := integrateProduct(t, camG)
		if err != nil {
			return nil, err
		}
		b, err := integrateProduct(t, camB)
		if err != nil {
			return nil, err
		}
		rgb[i] = [3]float64{r * wb[0], g * wb[1], b * wb[2]}
	}
	return rgb, nil
}

// calXYZ computes the adopted-white-adapted CIE XYZ tristimulus value
// for every training-patch radiance, chromatically adapting from the
// illuminant's own white to the ACES D60 reference white.
func calXYZ(observer, illum rtspectrum.SpectralData, ti []rtspectrum.Spectrum) ([][3]float64, error) {
	if len(ti) == 0 {
		return nil, rterrors.New("spectralsolver.calXYZ", rterrors.DataShape,
			fmt.Errorf("training radiance list is empty"))
	}

	cmfX, err := observer.Channel("X")
	if err != nil {
		return nil, err
	}
	cmfY, err := observer.Channel("Y")
	if err != nil {
		return nil, err
	}
	cmfZ, err := observer.Channel("Z")
	if err != nil {
		return nil, err
	}
	power, err := illum.Channel("power")
	if err != nil {
		return nil, err
	}

	yIntegral, err := integrateProduct(cmfY, power)
	if err != nil {
		return nil, err
	}
	scale := 1.0 / yIntegral

	xyz := make([][3]float64, len(ti))
	for i, t := range ti {
		x, err := integrateProduct(t, cmfX)
		if err != nil {
			return nil, err
		}
		y, err := integrateProduct(t, cmfY)
		if err != nil {
			return nil, err
		}
		z, err := integrateProduct(t, cmfZ)
		if err != nil {
			return nil, err
		}
		xyz[i] = [3]float64{x * scale, y * scale, z * scale}
	}

	xIntegral, err := integrateProduct(cmfX, power)
	if err != nil {
		return nil, err
	}
	zIntegral, err := integrateProduct(cmfZ, power)
	if err != nil {
		return nil, err
	}
	adoptedWhite := hdrcolor.XYZ{X: xIntegral / yIntegral, Y: 1.0, Z: zIntegral / yIntegral}
	acesWhite := hdrcolor.XYZ{X: rtconst.D60[0], Y: rtconst.D60[1], Z: rtconst.D60[2]}

	chad := cat.Calculate(adoptedWhite, acesWhite)
	for i := range xyz {
		adapted := cat.Apply(chad, hdrcolor.XYZ{X: xyz[i][0], Y: xyz[i][1], Z: xyz[i][2]})
		xyz[i] = [3]float64{adapted.X, adapted.Y, adapted.Z}
	}

	return xyz, nil
}

// xyzToLAB converts a slice of XYZ triples to CIE L*a*b*, normalizing
// against the ACES reference white before applying the nonlinearity.
func xyzToLAB(xyz [][3]float64) [][3]float64 {
	lab := make([][3]float64, len(xyz))
	for i, v := range xyz {
		f := [3]float64{}
		for j := 0; j < 3; j++ {
			t := v[j] / rtconst.ACESWhitePointXYZ[j]
			if t > rtconst.LabEpsilon {
				f[j] = math.Cbrt(t)
			} else {
				f[j] = rtconst.LabKappa*t + 16.0/116.0
			}
		}
		lab[i] = [3]float64{
			116.0*f[1] - 16.0,
			500.0 * (f[0] - f[1]),
			200.0 * (f[1] - f[2]),
		}
	}
	return lab
}

// buildCandidateIDT assembles the row-sum-1 3x3 matrix from the six
// free fit parameters.
func buildCandidateIDT(b [6]float64) [3][3]float64 {
	return [3][3]float64{
		{b[0], b[1], 1 - b[0] - b[1]},
		{b[2], b[3], 1 - b[2] - b[3]},
		{b[4], b[5], 1 - b[4] - b[5]},
	}
}

// predictXYZ maps each RGB row through the candidate IDT, then through
// the fixed ACES-RGB->XYZ matrix.
func predictXYZ(rgb [][3]float64, b [6]float64) [][3]float64 {
	idt := buildCandidateIDT(b)
	idtFlat := rtmath.Mat3FromRows(idt)
	m := rtmath.Mat3FromRows(rtconst.ACESRGBToXYZ)

	out := make([][3]float64, len(rgb))
	for i, row := range rgb {
		u, _ := rtmath.MulVec(idtFlat, 3, 3, row[:])
		xyz, _ := rtmath.MulVec(m, 3, 3, u)
		out[i] = [3]float64{xyz[0], xyz[1], xyz[2]}
	}
	return out
}

// residuals computes targetLAB - predictedLAB(B) as a flat length
// 3*len(rgb) vector, matching Objfun::operator().
func residuals(b [6]float64, rgb [][3]float64, targetLAB [][3]float64) []float64 {
	predictedXYZ := predictXYZ(rgb, b)
	predictedLAB := xyzToLAB(predictedXYZ)

	out := make([]float64, 0, len(rgb)*3)
	for i := range rgb {
		for j := 0; j < 3; j++ {
			out = append(out, targetLAB[i][j]-predictedLAB[i][j])
		}
	}
	return out
}

// CalculateIDTMatrix runs the full spectral IDT solve: the training
// radiances, white-balanced camera RGB, chromatically adapted XYZ, and
// the nonlinear least-squares fit between them in CIE LAB.
func (s *Solver) CalculateIDTMatrix() error {
	if len(s.camera.Main()) != 3 {
		return rterrors.New("spectralsolver.CalculateIDTMatrix", rterrors.NotConfigured,
			fmt.Errorf("camera needs to be initialized with 3 channels"))
	}
	if len(s.illuminant.Main()) != 1 {
		return rterrors.New("spectralsolver.CalculateIDTMatrix", rterrors.NotConfigured,
			fmt.Errorf("illuminant needs to be initialized with 1 channel"))
	}
	if len(s.observer.Main()) != 3 {
		return rterrors.New("spectralsolver.CalculateIDTMatrix", rterrors.NotConfigured,
			fmt.Errorf("observer needs to be initialized with 3 channels"))
	}
	if len(s.trainingData.Main()) == 0 {
		return rterrors.New("spectralsolver.CalculateIDTMatrix", rterrors.NotConfigured,
			fmt.Errorf("training data needs to be initialized"))
	}

	ti, err := calTI(s.illuminant, s.trainingData)
	if err != nil {
		return err
	}
	rgb, err := calRGB(s.camera, s.wbMultipliers, ti)
	if err != nil {
		return err
	}
	xyz, err := calXYZ(s.observer, s.illuminant, ti)
	if err != nil {
		return err
	}

	targetLAB := xyzToLAB(xyz)
	seed := [6]float64{1.0, 0.0, 0.0, 1.0, 0.0, 0.0}

	fit, ok := levenbergMarquardt(seed, rgb, targetLAB, s.Verbosity)
	if !ok {
		return rterrors.New("spectralsolver.CalculateIDTMatrix", rterrors.SolveFailed,
			fmt.Errorf("optimizer reported no successful step"))
	}

	s.idtMatrix = buildCandidateIDT(fit)
	return nil
}
