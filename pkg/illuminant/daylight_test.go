package illuminant

import (
	"testing"

	"github.com/rta-go/colorcore/internal/rterrors"
	"github.com/rta-go/colorcore/pkg/rtspectrum"
)

func newDefaultSpectrum(t *testing.T) rtspectrum.Spectrum {
	t.Helper()
	sp, err := rtspectrum.NewSpectrum(rtspectrum.DefaultStart, rtspectrum.DefaultEnd, rtspectrum.DefaultStep)
	if err != nil {
		t.Fatal(err)
	}
	return sp
}

func TestCalculateDaylightSPDBoundaries(t *testing.T) {
	cases := []struct {
		cct     int
		wantErr bool
	}{
		{4000, false},
		{25000, false},
		{3999, true},
		{25001, true},
	}

	for _, tc := range cases {
		sp := newDefaultSpectrum(t)
		err := CalculateDaylightSPD(tc.cct, &sp)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("cct=%d: expected DomainRange error, got nil", tc.cct)
			}
			if !rterrors.Is(err, rterrors.Sentinel(rterrors.DomainRange)) {
				t.Fatalf("cct=%d: expected DomainRange kind, got %v", tc.cct, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("cct=%d: unexpected error %v", tc.cct, err)
		}
		if len(sp.Values) == 0 {
			t.Fatalf("cct=%d: expected non-empty synthesized spectrum", tc.cct)
		}
	}
}

func TestCalculateBlackbodySPDBoundaries(t *testing.T) {
	cases := []struct {
		cct     int
		wantErr bool
	}{
		{1500, false},
		{3999, false},
		{4000, true},
		{1499, true},
	}

	for _, tc := range cases {
		sp := newDefaultSpectrum(t)
		err := CalculateBlackbodySPD(tc.cct, &sp)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("cct=%d: expected DomainRange error, got nil", tc.cct)
			}
			continue
		}
		if err != nil {
			t.Fatalf("cct=%d: unexpected error %v", tc.cct, err)
		}
		if len(sp.Values) != 81 {
			t.Fatalf("cct=%d: len(Values) = %d, want 81", tc.cct, len(sp.Values))
		}
	}
}

func TestDaylightTagFormatting(t *testing.T) {
	if got := DaylightTag(5500); got != "d55" {
		t.Fatalf("DaylightTag(5500) = %q, want d55", got)
	}
	if got := DaylightTag(55); got != "d55" {
		t.Fatalf("DaylightTag(55) = %q, want d55", got)
	}
}

func TestFindDispatchesDaylightAndBlackbody(t *testing.T) {
	d, err := Find("d55", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !d.MatchesIlluminantTag("d55") {
		t.Fatalf("Find(d55) illuminant tag = %q, want d55", d.Illuminant)
	}

	bb, err := Find("3200k", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bb.MatchesIlluminantTag("3200k") {
		t.Fatalf("Find(3200k) illuminant tag = %q, want 3200k", bb.Illuminant)
	}
}

func TestFindEmptyTagFails(t *testing.T) {
	if _, err := Find("", nil); err == nil {
		t.Fatal("expected DomainRange error for empty tag")
	}
}

func TestFindUnmatchedDatabaseTagFails(t *testing.T) {
	if _, err := Find("unobtainium", nil); err == nil {
		t.Fatal("expected Unmatched error when no search dirs contain the tag")
	}
}

func TestBuildCandidatePoolCoversDaylightAndBlackbodyRanges(t *testing.T) {
	pool := BuildCandidatePool(nil)

	wantDaylight := len(rangeStep(4000, 25000, 500))
	wantBlackbody := len(rangeStep(1500, 3500, 500))
	if len(pool) < wantDaylight+wantBlackbody {
		t.Fatalf("len(pool) = %d, want at least %d", len(pool), wantDaylight+wantBlackbody)
	}
}

func rangeStep(start, end, step int) []int {
	var out []int
	for v := start; v <= end; v += step {
		out = append(out, v)
	}
	return out
}
