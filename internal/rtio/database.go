// Package rtio is the external-collaborator boundary spec.md §6
// describes: it enumerates database directories and decodes the JSON
// SpectralData files within them. Nothing in here performs raw image
// decoding; it only loads the small calibration/reference datasets the
// solvers consume. Modeled on the teacher's own load.go
// (pkg/eclipse/load.go), which plays the identical role for TIFF+YAML
// inputs: walk a list of locations, read files, decode, wrap errors
// with fmt.Errorf.
package rtio

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rta-go/colorcore/pkg/rtspectrum"
)

// CollectDataFiles enumerates every .json file found in the `dataType`
// subdirectory (e.g. "camera", "illuminant", "cmf", "training") of each
// directory in searchDirs, in order. Non-existent directories are
// silently skipped unless verbose is true, in which case a warning is
// logged — matching spec.md §6's "silently skipped (a warning may be
// emitted when verbose)".
func CollectDataFiles(searchDirs []string, dataType string, verbose bool) []string {
	var result []string

	for _, dir := range searchDirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			if verbose {
				log.Printf("WARNING: database location %q is not a directory", dir)
			}
			continue
		}

		typePath := filepath.Join(dir, dataType)
		entries, err := os.ReadDir(typePath)
		if err != nil {
			if verbose {
				log.Printf("WARNING: directory %q does not exist", typePath)
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				result = append(result, filepath.Join(typePath, entry.Name()))
			}
		}
	}

	return result
}

// LoadSpectralData reads and decodes a single SpectralData JSON file
// from disk.
func LoadSpectralData(path string) (rtspectrum.SpectralData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return rtspectrum.SpectralData{}, fmt.Errorf("read %s: %w", path, err)
	}
	var d rtspectrum.SpectralData
	if err := d.Load(raw); err != nil {
		return rtspectrum.SpectralData{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return d, nil
}

// LoadSpectralDataMaybeRelative resolves filePath against
// searchDirs when it is not absolute, in the style of
// SpectralSolver::load_spectral_data in the legacy implementation.
func LoadSpectralDataMaybeRelative(filePath string, searchDirs []string) (rtspectrum.SpectralData, error) {
	if filepath.IsAbs(filePath) {
		return LoadSpectralData(filePath)
	}
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, filePath)
		if _, err := os.Stat(candidate); err == nil {
			return LoadSpectralData(candidate)
		}
	}
	return rtspectrum.SpectralData{}, fmt.Errorf("%s: not found in any search directory", filePath)
}
