package rtio

import (
	"os"
	"path/filepath"
	"testing"
)

const toyJSON = `{
  "header": {"manufacturer":"nikon","model":"d200","illuminant":"","units":"relative"},
  "spectral_data": {
    "units": "relative",
    "index": {"main": ["R"]},
    "data": {"R": {"start":500,"end":520,"step":10,"values":[1,2,3]}}
  }
}`

func writeDataFile(t *testing.T, root, dataType, name string) {
	t.Helper()
	dir := filepath.Join(root, dataType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(toyJSON), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectDataFilesFindsJSONOnly(t *testing.T) {
	root := t.TempDir()
	writeDataFile(t, root, "camera", "nikon_d200.json")

	dir := filepath.Join(root, "camera")
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	files := CollectDataFiles([]string{root}, "camera", false)
	if len(files) != 1 {
		t.Fatalf("len(files) = %d, want 1 (non-.json entries excluded): %v", len(files), files)
	}
}

func TestCollectDataFilesSkipsMissingDirsSilently(t *testing.T) {
	files := CollectDataFiles([]string{"/does/not/exist"}, "camera", false)
	if len(files) != 0 {
		t.Fatalf("len(files) = %d, want 0 for a nonexistent search dir", len(files))
	}
}

func TestLoadSpectralDataRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeDataFile(t, root, "camera", "nikon_d200.json")

	d, err := LoadSpectralData(filepath.Join(root, "camera", "nikon_d200.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !d.MatchesCamera("Nikon", "D200") {
		t.Fatalf("loaded data does not match expected camera, got %s/%s", d.Manufacturer, d.Model)
	}
}

func TestLoadSpectralDataMissingFileFails(t *testing.T) {
	if _, err := LoadSpectralData("/does/not/exist.json"); err == nil {
		t.Fatal("expected error reading a nonexistent file")
	}
}

func TestLoadSpectralDataMaybeRelativeSearchesDirs(t *testing.T) {
	root := t.TempDir()
	writeDataFile(t, root, "camera", "nikon_d200.json")

	d, err := LoadSpectralDataMaybeRelative(filepath.Join("camera", "nikon_d200.json"), []string{root})
	if err != nil {
		t.Fatal(err)
	}
	if !d.MatchesCamera("Nikon", "D200") {
		t.Fatalf("loaded data does not match expected camera, got %s/%s", d.Manufacturer, d.Model)
	}
}

func TestLoadSpectralDataMaybeRelativeAbsolutePath(t *testing.T) {
	root := t.TempDir()
	writeDataFile(t, root, "camera", "nikon_d200.json")
	abs := filepath.Join(root, "camera", "nikon_d200.json")

	d, err := LoadSpectralDataMaybeRelative(abs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !d.MatchesCamera("Nikon", "D200") {
		t.Fatalf("loaded data does not match expected camera, got %s/%s", d.Manufacturer, d.Model)
	}
}

func TestLoadSpectralDataMaybeRelativeNotFound(t *testing.T) {
	if _, err := LoadSpectralDataMaybeRelative("missing.json", []string{t.TempDir()}); err == nil {
		t.Fatal("expected error when no search dir contains the relative path")
	}
}
