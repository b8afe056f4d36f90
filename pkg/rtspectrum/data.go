package rtspectrum

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rta-go/colorcore/internal/rterrors"
)

// Channel is a single named Spectrum within a SpectralData group,
// preserving the insertion order spec.md's data model requires
// (training-data solving depends on iteration order matching the
// reference test vectors).
type Channel struct {
	Name string
	Data Spectrum
}

// SpectralData is a named, multi-channel bundle of Spectra sharing a
// common sampling shape, loaded from (or matching) the on-disk JSON
// format described in spec.md §6.
type SpectralData struct {
	Manufacturer string
	Model        string
	Illuminant   string
	Units        string

	// Groups maps a group name (conventionally "main") to an ordered
	// sequence of channels. A slice-of-pairs, not a map, because
	// channel order is part of the public contract.
	Groups map[string][]Channel
}

// NewSpectralData returns an empty SpectralData with an initialized
// Groups map.
func NewSpectralData() SpectralData {
	return SpectralData{Groups: map[string][]Channel{}}
}

// Main returns the "main" group's channel list, the conventional group
// every camera/illuminant/observer/training SpectralData populates.
func (d SpectralData) Main() []Channel {
	return d.Groups["main"]
}

// Channel looks up a channel by name within the "main" group. Fails
// with DataShape if the channel is absent.
func (d SpectralData) Channel(name string) (Spectrum, error) {
	for _, ch := range d.Groups["main"] {
		if ch.Name == name {
			return ch.Data, nil
		}
	}
	return Spectrum{}, rterrors.New("SpectralData.Channel", rterrors.DataShape,
		fmt.Errorf("channel %q not found", name))
}

// MustChannel is Channel but panics on a missing channel; reserved for
// call sites that have already validated channel presence (e.g. a
// solver's precondition check ran immediately before).
func (d SpectralData) MustChannel(name string) Spectrum {
	s, err := d.Channel(name)
	if err != nil {
		panic(err)
	}
	return s
}

// ScaleChannel scales a named channel's Spectrum in place by factor,
// mutating d's own storage rather than a copy. Used by the Spectral
// Solver's illuminant-scaling step, which by design re-scales the same
// underlying illuminant data on every white-balance calculation.
func (d *SpectralData) ScaleChannel(name string, factor float64) error {
	channels := d.Groups["main"]
	for i := range channels {
		if channels[i].Name == name {
			channels[i].Data.Scale(factor)
			return nil
		}
	}
	return rterrors.New("SpectralData.ScaleChannel", rterrors.DataShape,
		fmt.Errorf("channel %q not found", name))
}

// SetMain replaces the "main" group's channel list wholesale.
func (d *SpectralData) SetMain(channels []Channel) {
	if d.Groups == nil {
		d.Groups = map[string][]Channel{}
	}
	d.Groups["main"] = channels
}

// jsonDoc mirrors the on-disk SpectralData JSON format of spec.md §6:
// a header section with provenance fields, and a spectral_data section
// with an index (group -> ordered channel names) and per-channel
// sampled data plus sampling shape.
type jsonDoc struct {
	Header struct {
		Manufacturer string `json:"manufacturer"`
		Model        string `json:"model"`
		Illuminant   string `json:"illuminant"`
		Units        string `json:"units"`
	} `json:"header"`
	SpectralData struct {
		Units string              `json:"units"`
		Index map[string][]string `json:"index"`
		Data  map[string]struct {
			Start  int       `json:"start"`
			End    int       `json:"end"`
			Step   int       `json:"step"`
			Values []float64 `json:"values"`
		} `json:"data"`
	} `json:"spectral_data"`
}

// Load decodes raw as a SpectralData JSON document (spec.md §6),
// populating d in place. It preserves the index's channel order within
// each group.
func (d *SpectralData) Load(raw []byte) error {
	var doc jsonDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return rterrors.New("SpectralData.Load", rterrors.LoadFailure, err)
	}

	d.Manufacturer = doc.Header.Manufacturer
	d.Model = doc.Header.Model
	d.Illuminant = doc.Header.Illuminant
	d.Units = doc.SpectralData.Units
	if d.Units == "" {
		d.Units = doc.Header.Units
	}
	d.Groups = map[string][]Channel{}

	var sampleShape struct{ Start, End, Step int }
	first := true

	for group, names := range doc.SpectralData.Index {
		channels := make([]Channel, 0, len(names))
		for _, name := range names {
			entry, ok := doc.SpectralData.Data[name]
			if !ok {
				return rterrors.New("SpectralData.Load", rterrors.DataShape,
					fmt.Errorf("index names channel %q, no data entry", name))
			}
			if first {
				sampleShape.Start, sampleShape.End, sampleShape.Step = entry.Start, entry.End, entry.Step
				first = false
			} else if entry.Start != sampleShape.Start || entry.End != sampleShape.End || entry.Step != sampleShape.Step {
				return rterrors.New("SpectralData.Load", rterrors.DataShape,
					fmt.Errorf("channel %q has sampling shape (%d,%d,%d), expected (%d,%d,%d)",
						name, entry.Start, entry.End, entry.Step,
						sampleShape.Start, sampleShape.End, sampleShape.Step))
			}
			sp := Spectrum{Start: entry.Start, End: entry.End, Step: entry.Step, Values: entry.Values}
			if err := sp.validate(); err != nil {
				return err
			}
			channels = append(channels, Channel{Name: name, Data: sp})
		}
		d.Groups[group] = channels
	}

	return nil
}

// MatchesIlluminantTag reports whether d's Illuminant header field
// matches tag case-insensitively, the comparison find_illuminant(type)
// uses when searching the illuminant database.
func (d SpectralData) MatchesIlluminantTag(tag string) bool {
	return strings.EqualFold(d.Illuminant, tag)
}

// MatchesCamera reports whether d's manufacturer/model match make/model
// case-insensitively, the comparison find_camera uses.
func (d SpectralData) MatchesCamera(make_, model string) bool {
	return strings.EqualFold(d.Manufacturer, make_) && strings.EqualFold(d.Model, model)
}
