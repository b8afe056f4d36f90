package illuminant

import (
	"fmt"
	"math"

	"github.com/rta-go/colorcore/internal/rterrors"
	"github.com/rta-go/colorcore/pkg/rtconst"
	"github.com/rta-go/colorcore/pkg/rtspectrum"
)

// CalculateBlackbodySPD synthesizes a Planckian blackbody spectrum at
// cct Kelvin, cct in [1500, 4000). Samples run 380-780nm at 5nm step,
// matching the legacy implementation's fixed sampling for blackbody
// curves regardless of the destination spectrum's requested shape.
func CalculateBlackbodySPD(cct int, spectrum *rtspectrum.Spectrum) error {
	if cct < 1500 || cct >= 4000 {
		return rterrors.New("illuminant.CalculateBlackbodySPD", rterrors.DomainRange,
			fmt.Errorf("cct %d out of range: expected [1500,4000)", cct))
	}

	values := make([]float64, 0, 81)
	for wav := 380; wav <= 780; wav += 5 {
		lambda := float64(wav) / 1e9
		c1 := 2 * rtconst.PlanckH * rtconst.LightC * rtconst.LightC
		c2 := (rtconst.PlanckH * rtconst.LightC) / (rtconst.BoltzmannK * lambda * float64(cct))
		values = append(values, c1*rtconst.Pi/(math.Pow(lambda, 5)*(math.Exp(c2)-1)))
	}

	spectrum.Start, spectrum.End, spectrum.Step = 380, 780, 5
	spectrum.Values = values
	return nil
}

// BlackbodyTag formats a synthesized-blackbody illuminant tag, e.g.
// "3200k".
func BlackbodyTag(cct int) string {
	return fmt.Sprintf("%dk", cct)
}
