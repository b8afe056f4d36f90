// Package config is the YAML-backed configuration layer for the idt
// command-line tool, in the style of the teacher's
// own pkg/eclipse/config.go: a plain struct, a constructor with
// sensible defaults, yaml.Unmarshal/Marshal round-tripping, and
// log.Fatal on unrecoverable misconfiguration.
package config

import (
	"log"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config holds the settings for either solver. LoadConfig decodes one
// from a YAML document; cmd/idt builds one from NewConfig, its flags
// and RAWTOACES_DATA_PATH, without reading YAML.
type Config struct {
	Verbosity int

	// SearchDirs lists database root directories, in the order they
	// should be consulted (earliest wins on name collision).
	SearchDirs []string

	// Mode selects which solver to run: "spectral" or "metadata".
	Mode string

	// Spectral Solver selectors.
	CameraMake    string
	CameraModel   string
	IlluminantTag string
	ObserverPath  string // database-relative or absolute path to the cmf file
	TrainingPath  string // database-relative or absolute path to the training-set file

	// Metadata Solver inputs, as decoded by LoadConfig or assigned by
	// a caller; cmd/idt sets none of them.
	BaselineExposure float64
	NeutralRGB       []float64
	Calibration1Illuminant uint16
	Calibration2Illuminant uint16
	Calibration1Matrix     [9]float64
	Calibration2Matrix     [9]float64

	OutputPath string
}

// NewConfig returns a Config with the defaults the CLI falls back to
// absent any flag or YAML override.
func NewConfig() Config {
	return Config{
		Mode:          "spectral",
		IlluminantTag: "d55",
	}
}

// LoadConfig decodes a YAML document into a Config seeded with
// NewConfig's defaults.
func LoadConfig(raw []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(raw, &c)
	return c, err
}

// AsYaml renders the Config back to YAML, for verbose-mode echo of the
// final configuration.
func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("can't marshal config yaml: %v", err)
	}
	return string(b)
}

// SearchDirsFromEnv splits a RAWTOACES_DATA_PATH-style environment
// value on sep (":" on POSIX, ";" on Windows) into a directory list,
// dropping empty entries. The core itself never reads environment
// variables; this helper exists for the surrounding CLI to build the
// list it passes in.
func SearchDirsFromEnv(value, sep string) []string {
	var dirs []string
	for _, part := range strings.Split(value, sep) {
		if part != "" {
			dirs = append(dirs, part)
		}
	}
	return dirs
}
