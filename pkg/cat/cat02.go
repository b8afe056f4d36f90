// Package cat implements the CAT02 chromatic adaptation transform:
// given a source and destination reference white (in XYZ), it returns
// the 3x3 matrix that relocates one white to the other while
// preserving relative color appearance. White points are represented
// with github.com/mdouchement/hdr/hdrcolor.XYZ, the same concrete
// color type the teacher uses for camera-native/XYZ values
// (pkg/ecolor/cameranative.go), since both are just XYZ triples.
package cat

import (
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/rta-go/colorcore/pkg/rtconst"
	"github.com/rta-go/colorcore/pkg/rtmath"
)

// Calculate returns CAT02_inv * diag(dstLMS/srcLMS) * CAT02, where
// LMS = CAT02 * whiteXYZ. Mirrors calculate_CAT in mathOps.h.
func Calculate(srcWhite, dstWhite hdrcolor.XYZ) [3][3]float64 {
	cat02 := rtmath.Mat3FromRows(rtconst.CAT02)
	cat02Inv := rtmath.Mat3FromRows(rtconst.CAT02Inv)

	srcVec := []float64{srcWhite.X, srcWhite.Y, srcWhite.Z}
	dstVec := []float64{dstWhite.X, dstWhite.Y, dstWhite.Z}

	srcLMS, _ := rtmath.MulVec(cat02, 3, 3, srcVec)
	dstLMS, _ := rtmath.MulVec(cat02, 3, 3, dstVec)

	diag := make([]float64, 3)
	for i := 0; i < 3; i++ {
		diag[i] = dstLMS[i] / srcLMS[i]
	}
	diagM := rtmath.Diag(diag)

	// result = CAT02_inv * diag(dstLMS/srcLMS) * CAT02
	step1, _ := rtmath.Mul(diagM, 3, 3, cat02, 3, 3)
	result, _ := rtmath.Mul(cat02Inv, 3, 3, step1, 3, 3)

	return rtmath.RowsFromMat3(result)
}

// Apply maps an XYZ triple through a 3x3 matrix (row-major rows).
func Apply(m [3][3]float64, xyz hdrcolor.XYZ) hdrcolor.XYZ {
	flat := rtmath.Mat3FromRows(m)
	v, _ := rtmath.MulVec(flat, 3, 3, []float64{xyz.X, xyz.Y, xyz.Z})
	return hdrcolor.XYZ{X: v[0], Y: v[1], Z: v[2]}
}
