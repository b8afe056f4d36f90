package metadatasolver

import (
	"errors"
	"log"
	"math"

	"github.com/rta-go/colorcore/internal/rterrors"
	"github.com/rta-go/colorcore/pkg/cat"
	"github.com/rta-go/colorcore/pkg/rtconst"
	"github.com/rta-go/colorcore/pkg/rtmath"

	"github.com/mdouchement/hdr/hdrcolor"
)

var (
	errSingularCameraToXYZ = errors.New("camera-to-XYZ matrix sums to zero")
	errDegenerateIDT       = errors.New("IDT matrix sums to zero")
)

// XYZToCameraWeightedMatrix linearly interpolates between two
// calibration matrices in mired space: w = clamp((mired1 - mired0) /
// (mired1 - mired2), 0, 1); result = (1-w)*M1 + w*M2.
func XYZToCameraWeightedMatrix(mired0, mired1, mired2 float64, m1, m2 [9]float64) [9]float64 {
	weight := math.Max(0.0, math.Min(1.0, (mired1-mired0)/(mired1-mired2)))

	diff, _ := rtmath.SubVectors(m2[:], m1[:])
	rtmath.ScaleVector(diff, weight)
	result, _ := rtmath.AddVectors(diff, m1[:])

	var out [9]float64
	copy(out[:], result)
	return out
}

// FindXYZToCameraMatrix performs the mired-space fixed-point sweep
// that locates the scene color temperature implied by neutralRGB,
// returning the XYZ-to-camera matrix interpolated at that temperature.
// Mirrors findXYZtoCameraMtx verbatim, including its three ordered
// termination rules.
func (s *Solver) FindXYZToCameraMatrix(neutralRGB []float64) ([9]float64, error) {
	m := s.metadata

	if m.Calibration[0].Illuminant == 0 {
		log.Printf("WARNING: no calibration illuminants were found")
		return m.Calibration[0].XYZToRGBMatrix, nil
	}
	if len(neutralRGB) == 0 {
		log.Printf("WARNING: no neutral RGB values were found")
		return m.Calibration[0].XYZToRGBMatrix, nil
	}

	cct1 := LightSourceToColorTemp(m.Calibration[0].Illuminant)
	cct2 := LightSourceToColorTemp(m.Calibration[1].Illuminant)

	mir1 := CCTToMired(cct1)
	mir2 := CCTToMired(cct2)

	maxMir := CCTToMired(2000.0)
	minMir := CCTToMired(50000.0)

	matrix1 := m.Calibration[0].XYZToRGBMatrix
	matrix2 := m.Calibration[1].XYZToRGBMatrix

	lomir := math.Max(minMir, math.Min(maxMir, math.Min(mir1, mir2)))
	himir := math.Max(minMir, math.Min(maxMir, math.Max(mir1, mir2)))
	mirStep := math.Max(5.0, (himir-lomir)/50.0)

	var lastMired, estimatedMired, lerror, lastError, smallestError float64

	for mir := lomir; mir < himir; mir += mirStep {
		weighted := XYZToCameraWeightedMatrix(mir, mir1, mir2, matrix1, matrix2)
		inv, err := rtmath.Invert3x3(weighted[:])
		if err != nil {
			return [9]float64{}, err
		}
		camXYZ, err := rtmath.MulVec(inv, 3, 3, neutralRGB)
		if err != nil {
			return [9]float64{}, err
		}
		cct, err := XYZToColorTemperature([3]float64{camXYZ[0], camXYZ[1], camXYZ[2]})
		if err != nil {
			return [9]float64{}, err
		}
		lerror = mir - CCTToMired(cct)

		if math.Abs(lerror-0.0) <= 1e-09 {
			estimatedMired = mir
			break
		}
		if math.Abs(mir-lomir-0.0) > 1e-09 && lerror*lastError <= 0.0 {
			estimatedMired = mir + (lerror/(lerror-lastError))*(mir-lastMired)
			break
		}
		if math.Abs(mir-lomir) <= 1e-09 || math.Abs(lerror) < math.Abs(smallestError) {
			estimatedMired = mir
			smallestError = lerror
		}

		lastError = lerror
		lastMired = mir
	}

	return XYZToCameraWeightedMatrix(estimatedMired, mir1, mir2, matrix1, matrix2), nil
}

// GetCameraXYZMatrixAndWhitePoint derives the camera-to-XYZ matrix
// (scaled by baseline exposure) and the normalized camera white point,
// from either the as-shot neutral or, lacking one, the first
// calibration illuminant's color temperature.
func (s *Solver) GetCameraXYZMatrixAndWhitePoint() ([9]float64, [3]float64, error) {
	m := s.metadata

	xyzToCam, err := s.FindXYZToCameraMatrix(m.NeutralRGB)
	if err != nil {
		return [9]float64{}, [3]float64{}, err
	}
	camToXYZ, err := rtmath.Invert3x3(xyzToCam[:])
	if err != nil {
		return [9]float64{}, [3]float64{}, err
	}
	if math.Abs(rtmath.Sum(camToXYZ)) <= 1e-09 {
		return [9]float64{}, [3]float64{}, rterrors.New("metadatasolver.GetCameraXYZMatrixAndWhitePoint",
			rterrors.DataShape, errSingularCameraToXYZ)
	}

	rtmath.ScaleVector(camToXYZ, math.Pow(2.0, m.BaselineExposure))

	var whitePoint []float64
	if len(m.NeutralRGB) > 0 {
		whitePoint, err = rtmath.MulVec(camToXYZ, 3, 3, m.NeutralRGB)
		if err != nil {
			return [9]float64{}, [3]float64{}, err
		}
	} else {
		whitePoint = ColorTemperatureToXYZ(LightSourceToColorTemp(m.Calibration[0].Illuminant))
	}

	rtmath.ScaleVector(whitePoint, 1.0/whitePoint[1])

	var camOut [9]float64
	copy(camOut[:], camToXYZ)
	return camOut, [3]float64{whitePoint[0], whitePoint[1], whitePoint[2]}, nil
}

// CalculateCATMatrix computes the chromatic-adaptation matrix that
// maps the camera's derived white to the ACES AP0 reference white.
func (s *Solver) CalculateCATMatrix() ([3][3]float64, error) {
	_, cameraWhite, err := s.GetCameraXYZMatrixAndWhitePoint()
	if err != nil {
		return [3][3]float64{}, err
	}

	rgbToXYZ, err := MatrixRGBToXYZ(rtconst.ACESChromaticities)
	if err != nil {
		return [3][3]float64{}, err
	}
	outputWhite, err := rtmath.MulVec(rgbToXYZ[:], 3, 3, []float64{1, 1, 1})
	if err != nil {
		return [3][3]float64{}, err
	}

	srcWhite := hdrcolor.XYZ{X: cameraWhite[0], Y: cameraWhite[1], Z: cameraWhite[2]}
	dstWhite := hdrcolor.XYZ{X: outputWhite[0], Y: outputWhite[1], Z: outputWhite[2]}
	return cat.Calculate(srcWhite, dstWhite), nil
}

// CalculateIDTMatrix composes the fixed XYZ(D65)->ACES-RGB matrix with
// the CAT stage to produce the Metadata Solver's final IDT.
func (s *Solver) CalculateIDTMatrix() ([3][3]float64, error) {
	chad, err := s.CalculateCATMatrix()
	if err != nil {
		return [3][3]float64{}, err
	}

	xyzD65ACESRGB := rtmath.Mat3FromRows(rtconst.XYZD65ToACESRGB)
	chadFlat := rtmath.Mat3FromRows(chad)

	matrix, err := rtmath.Mul(xyzD65ACESRGB, 3, 3, chadFlat, 3, 3)
	if err != nil {
		return [3][3]float64{}, err
	}
	if math.Abs(rtmath.Sum(matrix)) <= 1e-09 {
		return [3][3]float64{}, rterrors.New("metadatasolver.CalculateIDTMatrix",
			rterrors.SolveFailed, errDegenerateIDT)
	}

	return rtmath.RowsFromMat3(matrix), nil
}
