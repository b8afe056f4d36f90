package illuminant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rta-go/colorcore/internal/rterrors"
	"github.com/rta-go/colorcore/internal/rtio"
	"github.com/rta-go/colorcore/pkg/rtspectrum"
)

// GenerateIlluminant builds a SpectralData with a single "power"
// channel synthesized as a daylight or blackbody curve, tagged with
// type. Mirrors generate_illuminant in rawtoaces_core.cpp.
func GenerateIlluminant(cct int, tag string, isDaylight bool) (rtspectrum.SpectralData, error) {
	sp, err := rtspectrum.NewSpectrum(rtspectrum.DefaultStart, rtspectrum.DefaultEnd, rtspectrum.DefaultStep)
	if err != nil {
		return rtspectrum.SpectralData{}, err
	}

	if isDaylight {
		if err := CalculateDaylightSPD(cct, &sp); err != nil {
			return rtspectrum.SpectralData{}, err
		}
	} else {
		if err := CalculateBlackbodySPD(cct, &sp); err != nil {
			return rtspectrum.SpectralData{}, err
		}
	}

	d := rtspectrum.NewSpectralData()
	d.Illuminant = tag
	d.SetMain([]rtspectrum.Channel{{Name: "power", Data: sp}})
	return d, nil
}

// Find resolves an illuminant tag into a SpectralData, per spec.md
// §4.4's find_illuminant(type):
//   - "d" followed by digits: daylight, parsed as short or absolute cct.
//   - ends in "k": blackbody, parsed as Kelvin.
//   - otherwise: search the illuminant database in searchDirs for the
//     first file whose stored illuminant tag matches case-insensitively.
func Find(tag string, searchDirs []string) (rtspectrum.SpectralData, error) {
	if tag == "" {
		return rtspectrum.SpectralData{}, rterrors.New("illuminant.Find", rterrors.DomainRange,
			fmt.Errorf("empty illuminant tag"))
	}

	lower := strings.ToLower(tag)

	if strings.HasPrefix(lower, "d") && len(lower) > 1 &&
		strings.Trim(lower[1:], "0123456789") == "" {
		cct, err := strconv.Atoi(lower[1:])
		if err != nil {
			return rtspectrum.SpectralData{}, rterrors.New("illuminant.Find", rterrors.DomainRange,
				fmt.Errorf("invalid daylight tag %q: %w", tag, err))
		}
		return GenerateIlluminant(cct, fmt.Sprintf("d%d", cct), true)
	}

	if strings.HasSuffix(lower, "k") {
		cct, err := strconv.Atoi(lower[:len(lower)-1])
		if err != nil {
			return rtspectrum.SpectralData{}, rterrors.New("illuminant.Find", rterrors.DomainRange,
				fmt.Errorf("invalid blackbody tag %q: %w", tag, err))
		}
		return GenerateIlluminant(cct, fmt.Sprintf("%dk", cct), false)
	}

	files := rtio.CollectDataFiles(searchDirs, "illuminant", false)
	for _, f := range files {
		d, err := rtio.LoadSpectralData(f)
		if err != nil {
			continue
		}
		if d.MatchesIlluminantTag(tag) {
			return d, nil
		}
	}

	return rtspectrum.SpectralData{}, rterrors.New("illuminant.Find", rterrors.Unmatched,
		fmt.Errorf("no illuminant matching %q", tag))
}

// BuildCandidatePool builds the full candidate illuminant pool used by
// the Spectral Solver's best-illuminant search (the solver calls it
// lazily, on first use, and keeps the result): synthesized
// daylight (4000-25000K step 500), synthesized blackbody (1500-3500K
// step 500), then every loadable illuminant database file, in that
// order. Matches SpectralSolver::find_illuminant(wb)'s pool-build step.
func BuildCandidatePool(searchDirs []string) []rtspectrum.SpectralData {
	var pool []rtspectrum.SpectralData

	for cct := 4000; cct <= 25000; cct += 500 {
		tag := DaylightTag(cct)
		d, err := GenerateIlluminant(cct, tag, true)
		if err == nil {
			pool = append(pool, d)
		}
	}

	for cct := 1500; cct < 4000; cct += 500 {
		tag := BlackbodyTag(cct)
		d, err := GenerateIlluminant(cct, tag, false)
		if err == nil {
			pool = append(pool, d)
		}
	}

	files := rtio.CollectDataFiles(searchDirs, "illuminant", false)
	for _, f := range files {
		d, err := rtio.LoadSpectralData(f)
		if err != nil {
			continue
		}
		pool = append(pool, d)
	}

	return pool
}
