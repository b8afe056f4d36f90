// Command idt computes white-balance multipliers and an ACES AP0 IDT
// matrix, either from measured spectral data (the Spectral Solver) or
// from DNG-style calibration metadata (the Metadata Solver). Database
// search directories come from the RAWTOACES_DATA_PATH environment
// variable (colon-separated on POSIX, semicolon-separated on
// Windows), in the style of the teacher's cmd/eclipse-hdr flag-driven
// entry point. No YAML file is read, and no flag sets the Metadata
// Solver's calibration inputs: -mode metadata passes the zero-valued
// metadata fields of config.NewConfig to the solver.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/rta-go/colorcore/internal/config"
	"github.com/rta-go/colorcore/internal/rtio"
	"github.com/rta-go/colorcore/pkg/metadatasolver"
	"github.com/rta-go/colorcore/pkg/spectralsolver"
)

var (
	fVerbosity     int
	fMode          string
	fCameraMake    string
	fCameraModel   string
	fIlluminantTag string
	fObserverPath  string
	fTrainingPath  string
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fMode, "mode", "spectral", "solver to run: spectral or metadata")
	flag.StringVar(&fCameraMake, "make", "", "camera manufacturer, for the Spectral Solver")
	flag.StringVar(&fCameraModel, "model", "", "camera model, for the Spectral Solver")
	flag.StringVar(&fIlluminantTag, "illuminant", "d55", "illuminant tag (e.g. d55, 3200k, or a database name)")
	flag.StringVar(&fObserverPath, "observer", "", "path to the standard-observer database file")
	flag.StringVar(&fTrainingPath, "training", "", "path to the reflectance training-set database file")
}

func searchDirSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

func main() {
	flag.Parse()

	c := config.NewConfig()
	c.Verbosity = fVerbosity
	c.Mode = fMode
	c.SearchDirs = config.SearchDirsFromEnv(os.Getenv("RAWTOACES_DATA_PATH"), searchDirSeparator())

	if c.Verbosity > 0 {
		log.Printf("idt starting, configuration:\n%s", c.AsYaml())
	}

	switch c.Mode {
	case "spectral":
		runSpectral(c)
	case "metadata":
		runMetadata(c)
	default:
		log.Fatalf("unknown mode %q: expected spectral or metadata", c.Mode)
	}
}

func runSpectral(c config.Config) {
	s := spectralsolver.New(c.SearchDirs)
	s.Verbosity = c.Verbosity

	if fCameraMake == "" || fCameraModel == "" {
		log.Fatal("spectral mode requires -make and -model")
	}
	if err := s.FindCamera(fCameraMake, fCameraModel); err != nil {
		log.Fatalf("find_camera: %v", err)
	}
	if err := s.FindIlluminant(fIlluminantTag); err != nil {
		log.Fatalf("find_illuminant: %v", err)
	}

	if fObserverPath != "" {
		observer, err := rtio.LoadSpectralDataMaybeRelative(fObserverPath, c.SearchDirs)
		if err != nil {
			log.Fatalf("load observer: %v", err)
		}
		s.SetObserver(observer)
	}
	if fTrainingPath != "" {
		training, err := rtio.LoadSpectralDataMaybeRelative(fTrainingPath, c.SearchDirs)
		if err != nil {
			log.Fatalf("load training data: %v", err)
		}
		s.SetTrainingData(training)
	}

	if err := s.CalculateWB(); err != nil {
		log.Fatalf("calculate_WB: %v", err)
	}
	fmt.Printf("WB multipliers: %v\n", s.GetWBMultipliers())

	if fObserverPath != "" && fTrainingPath != "" {
		if err := s.CalculateIDTMatrix(); err != nil {
			log.Fatalf("calculate_IDT_matrix: %v", err)
		}
		fmt.Printf("IDT matrix: %v\n", s.GetIDTMatrix())
	}
}

func runMetadata(c config.Config) {
	m := metadatasolver.Metadata{
		BaselineExposure: c.BaselineExposure,
		NeutralRGB:       c.NeutralRGB,
		Calibration: [2]metadatasolver.Calibration{
			{Illuminant: c.Calibration1Illuminant, XYZToRGBMatrix: c.Calibration1Matrix},
			{Illuminant: c.Calibration2Illuminant, XYZToRGBMatrix: c.Calibration2Matrix},
		},
	}

	solver := metadatasolver.New(m)
	idt, err := solver.CalculateIDTMatrix()
	if err != nil {
		log.Fatalf("calculate_IDT_matrix: %v", err)
	}
	fmt.Printf("IDT matrix: %v\n", idt)
}
