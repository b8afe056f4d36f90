package rtio

import (
	"fmt"
	"io"

	"github.com/rta-go/colorcore/pkg/metadatasolver"
	"github.com/rwcarlsen/goexif/exif"
)

// DNG-private tag numbers, from Adobe's DNG specification (not part of
// goexif's built-in field table, so they must be registered before a
// *exif.Exif will resolve them by name).
const (
	tagCalibrationIlluminant1 = 0xC65A
	tagCalibrationIlluminant2 = 0xC65B
	tagColorMatrix1           = 0xC621
	tagColorMatrix2           = 0xC622
	tagCameraCalibration1     = 0xC623
	tagCameraCalibration2     = 0xC624
	tagAsShotNeutral          = 0xC628
	tagBaselineExposure       = 0xC62A
)

const (
	fieldCalibrationIlluminant1 exif.FieldName = "CalibrationIlluminant1"
	fieldCalibrationIlluminant2 exif.FieldName = "CalibrationIlluminant2"
	fieldColorMatrix1           exif.FieldName = "ColorMatrix1"
	fieldColorMatrix2           exif.FieldName = "ColorMatrix2"
	fieldCameraCalibration1     exif.FieldName = "CameraCalibration1"
	fieldCameraCalibration2     exif.FieldName = "CameraCalibration2"
	fieldAsShotNeutral          exif.FieldName = "AsShotNeutral"
	fieldBaselineExposure       exif.FieldName = "BaselineExposure"
)

// dngFieldMap maps the DNG-private tag numbers above to their field
// names. This version of goexif has no standalone
// "register a field name" call; custom tags are picked up by
// registering a Parser that loads them from IFD0 via the public
// LoadTags API, same as the package's own built-in fields.
var dngFieldMap = map[uint16]exif.FieldName{
	tagCalibrationIlluminant1: fieldCalibrationIlluminant1,
	tagCalibrationIlluminant2: fieldCalibrationIlluminant2,
	tagColorMatrix1:           fieldColorMatrix1,
	tagColorMatrix2:           fieldColorMatrix2,
	tagCameraCalibration1:     fieldCameraCalibration1,
	tagCameraCalibration2:     fieldCameraCalibration2,
	tagAsShotNeutral:          fieldAsShotNeutral,
	tagBaselineExposure:       fieldBaselineExposure,
}

type dngFieldParser struct{}

func (dngFieldParser) Parse(x *exif.Exif) error {
	if len(x.Tiff.Dirs) == 0 {
		return nil
	}
	x.LoadTags(x.Tiff.Dirs[0], dngFieldMap, false)
	return nil
}

func init() {
	exif.RegisterParsers(dngFieldParser{})
}

// NewMetadataFromEXIF decodes the DNG calibration tags out of a
// TIFF/DNG's EXIF block and assembles a metadatasolver.Metadata. This
// is external-collaborator glue: it never touches raw sensor pixels,
// only the small calibration tag set the Metadata Solver consumes.
// Tags missing entirely are left at their zero value rather than
// failing the whole read, since a DNG written without dual-illuminant
// calibration still carries a usable (if degenerate) single matrix.
func NewMetadataFromEXIF(r io.Reader) (metadatasolver.Metadata, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return metadatasolver.Metadata{}, fmt.Errorf("decode EXIF: %w", err)
	}

	var m metadatasolver.Metadata

	if v, err := rationalArray(x, fieldAsShotNeutral, 3); err == nil {
		m.NeutralRGB = v
	}
	if v, err := rationalScalar(x, fieldBaselineExposure); err == nil {
		m.BaselineExposure = v
	}

	if v, err := intTag(x, fieldCalibrationIlluminant1); err == nil {
		m.Calibration[0].Illuminant = uint16(v)
	}
	if v, err := intTag(x, fieldCalibrationIlluminant2); err == nil {
		m.Calibration[1].Illuminant = uint16(v)
	}
	if v, err := rationalArray(x, fieldColorMatrix1, 9); err == nil {
		copy(m.Calibration[0].XYZToRGBMatrix[:], v)
	}
	if v, err := rationalArray(x, fieldColorMatrix2, 9); err == nil {
		copy(m.Calibration[1].XYZToRGBMatrix[:], v)
	}
	if v, err := rationalArray(x, fieldCameraCalibration1, 9); err == nil {
		copy(m.Calibration[0].CalibrationMatrix[:], v)
	}
	if v, err := rationalArray(x, fieldCameraCalibration2, 9); err == nil {
		copy(m.Calibration[1].CalibrationMatrix[:], v)
	}

	return m, nil
}

func intTag(x *exif.Exif, name exif.FieldName) (int, error) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, err
	}
	return tag.Int(0)
}

func rationalScalar(x *exif.Exif, name exif.FieldName) (float64, error) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, err
	}
	num, den, err := tag.Rat2(0)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, fmt.Errorf("%s: zero denominator", name)
	}
	return float64(num) / float64(den), nil
}

func rationalArray(x *exif.Exif, name exif.FieldName, n int) ([]float64, error) {
	tag, err := x.Get(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return nil, err
		}
		if den == 0 {
			return nil, fmt.Errorf("%s[%d]: zero denominator", name, i)
		}
		out[i] = float64(num) / float64(den)
	}
	return out, nil
}
