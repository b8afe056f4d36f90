package metadatasolver

import (
	"math"

	"github.com/rta-go/colorcore/pkg/rtconst"
	"github.com/rta-go/colorcore/pkg/rtmath"
)

// CCTToMired converts a correlated color temperature in Kelvin to
// mired (reciprocal megakelvin).
func CCTToMired(cct float64) float64 {
	return 1.0e6 / cct
}

// xyzToUV converts an XYZ triple to CIE 1960 (u, v) chromaticity.
func xyzToUV(xyz [3]float64) []float64 {
	denom := xyz[0] + 15*xyz[1] + 3*xyz[2]
	return []float64{4 * xyz[0] / denom, 6 * xyz[1] / denom}
}

// uvToXY converts CIE 1960 (u, v) back to CIE xy chromaticity.
func uvToXY(uv []float64) (x, y float64) {
	denom := 2*uv[0] - 8*uv[1] + 4
	x = 3 * uv[0] / denom
	y = 2 * uv[1] / denom
	return x, y
}

// xyToXYZ lifts a CIE xy chromaticity pair to an XYZ triple with Y=1.
func xyToXYZ(xy []float64) []float64 {
	x, y := xy[0], xy[1]
	return []float64{x / y, 1.0, (1 - x - y) / y}
}

// RobertsonLength is the signed distance, in (u, v) space, from a
// point to a Robertson isotherm line, used to locate the isotherm
// bracketing a chromaticity. uvt is one Robertson table row (u, v, t).
func RobertsonLength(uv []float64, uvt []float64) (float64, error) {
	t := uvt[2]
	sign := 0.0
	if t < 0 {
		sign = -1.0
	} else if t > 0 {
		sign = 1.0
	}
	slope := []float64{-sign / math.Sqrt(1+t*t), 0}
	slope[1] = t * slope[0]

	uvr := uvt[:2]
	diff, err := rtmath.SubVectors(uv, uvr)
	if err != nil {
		return 0, err
	}
	return rtmath.Cross2D(slope, diff)
}

// LightSourceToColorTemp maps an EXIF LightSource tag to a color
// temperature in Kelvin. Tags >= 32768 encode Kelvin directly as
// tag-32768; otherwise the fixed EXIF table is consulted, defaulting
// to 5500K on miss.
func LightSourceToColorTemp(tag uint16) float64 {
	if tag >= 32768 {
		return float64(tag) - 32768.0
	}
	if t, ok := rtconst.LightSourceColorTemp[tag]; ok {
		return t
	}
	return rtconst.DefaultLightSourceColorTemp
}

// XYZToColorTemperature estimates the correlated color temperature of
// an XYZ triple by walking the Robertson isotherm table and
// interpolating in mired space between the two bracketing rows.
func XYZToColorTemperature(xyz [3]float64) (float64, error) {
	uv := xyzToUV(xyz)
	n := len(rtconst.RobertsonTable)

	var mired float64
	var rdThis, rdPrevious float64
	i := 0
	for ; i < n; i++ {
		row := rtconst.RobertsonTable[i]
		d, err := RobertsonLength(uv, []float64{row.U, row.V, row.T})
		if err != nil {
			return 0, err
		}
		rdThis = d
		if rdThis <= 0.0 {
			break
		}
		rdPrevious = rdThis
	}

	switch {
	case i <= 0:
		mired = rtconst.RobertsonMired[0]
	case i >= n:
		mired = rtconst.RobertsonMired[n-1]
	default:
		mired = rtconst.RobertsonMired[i-1] +
			rdPrevious*(rtconst.RobertsonMired[i]-rtconst.RobertsonMired[i-1])/(rdPrevious-rdThis)
	}

	cct := 1.0e6 / mired
	cct = math.Max(2000.0, math.Min(50000.0, cct))
	return cct, nil
}

// ColorTemperatureToXYZ derives an XYZ triple (Y=1) for a Kelvin color
// temperature via Robertson uv interpolation followed by uv -> xy ->
// XYZ.
func ColorTemperatureToXYZ(cct float64) []float64 {
	mired := 1.0e6 / cct
	table := rtconst.RobertsonTable
	n := len(table)

	var uv []float64
	i := 0
	for ; i < n; i++ {
		if rtconst.RobertsonMired[i] >= mired {
			break
		}
	}

	switch {
	case i <= 0:
		uv = []float64{table[0].U, table[0].V}
	case i >= n:
		uv = []float64{table[n-1].U, table[n-1].V}
	default:
		weight := (mired - rtconst.RobertsonMired[i-1]) / (rtconst.RobertsonMired[i] - rtconst.RobertsonMired[i-1])
		uv1 := []float64{table[i].U, table[i].V}
		rtmath.ScaleVector(uv1, weight)
		uv2 := []float64{table[i-1].U, table[i-1].V}
		rtmath.ScaleVector(uv2, 1.0-weight)
		uv, _ = rtmath.AddVectors(uv1, uv2)
	}

	x, y := uvToXY(uv)
	return xyToXYZ([]float64{x, y})
}

// MatrixRGBToXYZ builds the RGB-to-XYZ matrix for a set of (R, G, B,
// W) chromaticities, normalizing so the white point maps to unit Y.
// Returned as a row-major 3x3. Mirrors matrixRGBtoXYZ.
func MatrixRGBToXYZ(chromaticities [4][2]float64) ([9]float64, error) {
	rXYZ := xyToXYZ(chromaticities[0][:])
	gXYZ := xyToXYZ(chromaticities[1][:])
	bXYZ := xyToXYZ(chromaticities[2][:])
	wXYZ := xyToXYZ(chromaticities[3][:])

	rgbMtx := make([]float64, 9)
	for i := 0; i < 3; i++ {
		rgbMtx[0+i*3] = rXYZ[i]
		rgbMtx[1+i*3] = gXYZ[i]
		rgbMtx[2+i*3] = bXYZ[i]
	}

	rtmath.ScaleVector(wXYZ, 1.0/wXYZ[1])

	inv, err := rtmath.Invert3x3(rgbMtx)
	if err != nil {
		return [9]float64{}, err
	}
	gains, err := rtmath.MulVec(inv, 3, 3, wXYZ)
	if err != nil {
		return [9]float64{}, err
	}
	colorMatrix, err := rtmath.Mul(rgbMtx, 3, 3, rtmath.Diag(gains), 3, 3)
	if err != nil {
		return [9]float64{}, err
	}

	var out [9]float64
	copy(out[:], colorMatrix)
	return out, nil
}
