// Package metadatasolver computes white-balance-independent IDT
// matrices from DNG-style calibration metadata: two reference
// illuminants, two XYZ-to-camera matrices, a neutral RGB reading, and
// a baseline exposure. It derives scene color temperature by
// fixed-point iteration in mired space against the Robertson isotherm
// table, then chromatically adapts the camera's white to the ACES
// reference white. Grounded on the DNGIdt class and its free
// functions in rawtoaces_core.cpp/rawtoaces_core.h.
package metadatasolver

// Calibration is one DNG calibration set: the EXIF light-source tag
// it was measured under (0..22, or >=32768 encoding Kelvin directly),
// and the row-major 3x3 XYZ-to-camera-RGB matrix fitted for it.
type Calibration struct {
	Illuminant        uint16
	XYZToRGBMatrix    [9]float64
	CalibrationMatrix [9]float64 // camera calibration matrix; identity in practice
}

// Metadata is the DNG-style calibration block the Metadata Solver
// consumes, mirroring core::Metadata.
type Metadata struct {
	Calibration      [2]Calibration
	NeutralRGB       []float64 // as-shot neutral in camera native space, length 3 or empty
	BaselineExposure float64   // stops
}

// Solver computes an IDT matrix from Metadata. It holds no other
// state; every call is a pure function of the Metadata it was built
// with.
type Solver struct {
	metadata Metadata
}

// New builds a Solver over the given calibration metadata.
func New(metadata Metadata) *Solver {
	return &Solver{metadata: metadata}
}
