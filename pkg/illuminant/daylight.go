// Package illuminant synthesizes Spectrum curves for CIE daylight and
// Planckian blackbody illuminants, and dispatches find_illuminant(type)
// to daylight/blackbody synthesis or a database lookup. Grounded on
// rawtoaces_core.cpp's calculate_daylight_SPD/calculate_blackbody_SPD
// and the S-series interpolation in mathOps.h's interp1DLinear.
package illuminant

import (
	"fmt"
	"math"

	"github.com/rta-go/colorcore/internal/rterrors"
	"github.com/rta-go/colorcore/pkg/rtconst"
	"github.com/rta-go/colorcore/pkg/rtspectrum"
)

// cctToXY computes the CIE chromaticity (x, y) for a daylight
// correlated color temperature already promoted to "cctd" units
// (i.e. the polynomial's own temperature scale, not necessarily Kelvin
// for all inputs — see CalculateDaylightSPD).
func cctToXY(cctd float64) (x, y float64) {
	if cctd >= 4002.15 && cctd <= 7003.77 {
		x = 0.244063 + 99.11/cctd + 2.9678e6/(cctd*cctd) - 4.6070e9/(cctd*cctd*cctd)
	} else {
		x = 0.237040 + 247.48/cctd + 1.9018e6/(cctd*cctd) - 2.0064e9/(cctd*cctd*cctd)
	}
	y = -3.0*x*x + 2.87*x - 0.275
	return x, y
}

// interp1DLinear piecewise-linearly resamples a (x0, y0) curve onto the
// wavelengths in x1, extrapolating the nearest segment's line for
// points outside the table — the same convention as mathOps.h's
// interp1DLinear (segment selection looks for the nearest x0[i] <= x1
// point, falling back to the first segment when none qualifies).
func interp1DLinear(x0 []int, x1 []int, y0 []float64) []float64 {
	n := len(x0)
	slope := make([]float64, n)
	intercept := make([]float64, n)
	for i := 0; i < n-1; i++ {
		slope[i] = (y0[i+1] - y0[i]) / float64(x0[i+1]-x0[i])
		intercept[i] = y0[i] - float64(x0[i])*slope[i]
	}
	slope[n-1] = slope[n-2]
	intercept[n-1] = intercept[n-2]

	y1 := make([]float64, len(x1))
	for i, v := range x1 {
		idx := findSegment(v, x0)
		if idx != -1 {
			y1[i] = slope[idx]*float64(v) + intercept[idx]
		} else {
			y1[i] = slope[0]*float64(v) + intercept[0]
		}
	}
	return y1
}

func findSegment(val int, x []int) int {
	dist := math.MaxFloat64
	index := -1
	for i, xv := range x {
		tmp := float64(val - xv)
		if tmp < dist && tmp >= 0 {
			dist = tmp
			index = i
		}
	}
	return index
}

// CalculateDaylightSPD synthesizes a CIE daylight spectrum at cct into
// spectrum's sampling shape. cct may be given as absolute Kelvin in
// [4000, 25000], or in short form [40, 250] (e.g. 55 meaning D55).
// Only wavelengths within [380, 780] are emitted.
func CalculateDaylightSPD(cct int, spectrum *rtspectrum.Spectrum) error {
	var cctd float64
	switch {
	case cct >= 40 && cct <= 250:
		cctd = float64(cct) * 100 * 1.4387752 / 1.438
	case cct >= 4000 && cct <= 25000:
		cctd = float64(cct)
	default:
		return rterrors.New("illuminant.CalculateDaylightSPD", rterrors.DomainRange,
			fmt.Errorf("cct %d out of range: expected [40,250] or [4000,25000]", cct))
	}

	x, y := cctToXY(cctd)
	m0 := 0.0241 + 0.2562*x - 0.7341*y
	m1 := (-1.3515 - 1.7703*x + 5.9114*y) / m0
	m2 := (0.03000 - 31.4424*x + 30.0717*y) / m0

	series := rtconst.DaylightSSeries
	wls0 := make([]int, len(series))
	s0, s1, s2 := make([]float64, len(series)), make([]float64, len(series)), make([]float64, len(series))
	for i, row := range series {
		wls0[i] = row.WL
		s0[i], s1[i], s2[i] = row.S0, row.S1, row.S2
	}

	inc := spectrum.Step
	size := (series[len(series)-1].WL-series[0].WL)/inc + 1
	wls1 := make([]int, size)
	for i := range wls1 {
		wls1[i] = series[0].WL + inc*i
	}

	r0 := interp1DLinear(wls0, wls1, s0)
	r1 := interp1DLinear(wls0, wls1, s1)
	r2 := interp1DLinear(wls0, wls1, s2)

	values := make([]float64, 0, len(wls1))
	for i, wl := range wls1 {
		if wl >= 380 && wl <= 780 {
			values = append(values, r0[i]+m1*r1[i]+m2*r2[i])
		}
	}

	spectrum.Start, spectrum.End, spectrum.Step = 380, 780, inc
	spectrum.Values = values
	return nil
}

// DaylightTag formats a synthesized-daylight illuminant tag from a
// daylight cct argument (short or absolute form), e.g. CalculateDaylightSPD
// was asked for 55 or 5500, both yield "d55".
func DaylightTag(cct int) string {
	if cct >= 4000 {
		return fmt.Sprintf("d%d", cct/100)
	}
	return fmt.Sprintf("d%d", cct)
}
