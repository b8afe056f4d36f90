// Package rtspectrum implements the leaf data types of the color core:
// Spectrum, a finite uniformly-sampled curve over wavelengths, and
// SpectralData, a named multi-channel bundle of Spectra. Both are
// immutable by convention after construction, in the same
// value-oriented spirit as the teacher's emath.Mat3/Vec3 types
// (pkg/emath/affine.go) — plain structs with methods, no hidden
// mutable global state.
package rtspectrum

import (
	"fmt"

	"github.com/rta-go/colorcore/internal/rterrors"
)

// DefaultStart, DefaultEnd and DefaultStep describe the canonical
// 380-780nm, 5nm-step sampling (81 samples) most camera/illuminant/
// observer/training Spectra use.
const (
	DefaultStart = 380
	DefaultEnd   = 780
	DefaultStep  = 5
)

// Spectrum is a discrete curve sampled at a fixed step between start
// and end, inclusive of both ends.
type Spectrum struct {
	Start, End, Step int
	Values           []float64
}

// NewSpectrum builds a Spectrum over [start, end] at the given step,
// with values defaulting to zero. (end-start) must be a positive
// multiple of step.
func NewSpectrum(start, end, step int) (Spectrum, error) {
	if step < 1 || end <= start || (end-start)%step != 0 {
		return Spectrum{}, rterrors.New("rtspectrum.NewSpectrum", rterrors.DataShape,
			fmt.Errorf("invalid sampling start=%d end=%d step=%d", start, end, step))
	}
	n := (end-start)/step + 1
	return Spectrum{Start: start, End: end, Step: step, Values: make([]float64, n)}, nil
}

// SampleCount returns the number of samples the Spectrum's shape
// implies.
func (s Spectrum) SampleCount() int {
	return (s.End-s.Start)/s.Step + 1
}

// validate checks that Values.len matches the shape implied by
// Start/End/Step.
func (s Spectrum) validate() error {
	if s.Step < 1 || s.End <= s.Start || (s.End-s.Start)%s.Step != 0 {
		return rterrors.New("Spectrum.validate", rterrors.DataShape,
			fmt.Errorf("invalid sampling start=%d end=%d step=%d", s.Start, s.End, s.Step))
	}
	if len(s.Values) != s.SampleCount() {
		return rterrors.New("Spectrum.validate", rterrors.DataShape,
			fmt.Errorf("values has %d samples, shape implies %d", len(s.Values), s.SampleCount()))
	}
	return nil
}

// Multiply returns the pointwise product of s and o over their common
// wavelength range [max(s.Start,o.Start), min(s.End,o.End)]. Both
// operands must share Step, per spec — mismatched steps are rejected
// rather than resampled, the stricter of the two historically-observed
// behaviors (see SPEC_FULL.md §9).
func (s Spectrum) Multiply(o Spectrum) (Spectrum, error) {
	if s.Step != o.Step {
		return Spectrum{}, rterrors.New("Spectrum.Multiply", rterrors.DataShape,
			fmt.Errorf("step mismatch %d != %d", s.Step, o.Step))
	}
	start := s.Start
	if o.Start > start {
		start = o.Start
	}
	end := s.End
	if o.End < end {
		end = o.End
	}
	if end <= start {
		return Spectrum{}, rterrors.New("Spectrum.Multiply", rterrors.DataShape,
			fmt.Errorf("no overlapping wavelength range"))
	}

	out, err := NewSpectrum(start, end, s.Step)
	if err != nil {
		return Spectrum{}, err
	}
	for i := range out.Values {
		wl := start + i*s.Step
		out.Values[i] = s.At(wl) * o.At(wl)
	}
	return out, nil
}

// At returns the sample at wavelength wl, assuming wl falls exactly on
// the curve's sampling grid and lies within [Start, End].
func (s Spectrum) At(wl int) float64 {
	idx := (wl - s.Start) / s.Step
	return s.Values[idx]
}

// Integrate returns the Riemann-sum integral: sum(values[i] * step).
// No trapezoidal correction is applied; consistency of convention
// across all callers is what matters, since absolute units cancel in
// every ratio the solvers compute.
func (s Spectrum) Integrate() float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	return sum * float64(s.Step)
}

// Scale multiplies every value by a scalar in place. This is the one
// mutating operation on Spectrum, used by the white-balance solver's
// illuminant scaling step (see spectralsolver's scaleIlluminant), which
// mutates the illuminant's power Spectrum through its SpectralData
// reference, matching the legacy scaleLSC behavior.
func (s *Spectrum) Scale(a float64) {
	for i := range s.Values {
		s.Values[i] *= a
	}
}

// Max returns the largest sample value. Fails with DataShape on an
// empty Spectrum.
func (s Spectrum) Max() (float64, error) {
	if len(s.Values) == 0 {
		return 0, rterrors.New("Spectrum.Max", rterrors.DataShape,
			fmt.Errorf("empty spectrum"))
	}
	m := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > m {
			m = v
		}
	}
	return m, nil
}

// Clone returns a deep copy of s.
func (s Spectrum) Clone() Spectrum {
	v := make([]float64, len(s.Values))
	copy(v, s.Values)
	return Spectrum{Start: s.Start, End: s.End, Step: s.Step, Values: v}
}
