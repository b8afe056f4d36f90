// Package rtplot renders a Spectrum's curve to a PNG for visual
// inspection — a developer convenience, not part of the color-science
// core. Grounded on FloatGrid.ToImg in the teacher's
// pkg/emath/floatgrid.go, which draws a gg.Context over a plain Go
// image and titles it with DrawString.
package rtplot

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/rta-go/colorcore/pkg/rtspectrum"
)

const (
	plotWidth  = 640
	plotHeight = 400
	margin     = 40
)

// Plot renders spectrum as a line plot inside a plain frame, with title
// drawn top-left and its start and end wavelengths labelled below the
// frame, and saves it to filename as a PNG.
func Plot(title string, spectrum rtspectrum.Spectrum, filename string) error {
	dc := gg.NewContext(plotWidth, plotHeight)
	dc.SetColor(color.White)
	dc.Clear()

	if err := setFont(dc, 14); err != nil {
		return err
	}

	dc.SetRGB(0, 0, 0)
	dc.DrawString(title, 10, 20)

	plotArea := image.Rect(margin, margin, plotWidth-margin, plotHeight-margin)
	drawAxes(dc, plotArea)

	if len(spectrum.Values) == 0 {
		dc.SavePNG(filename)
		return nil
	}

	minV, maxV := spectrum.Values[0], spectrum.Values[0]
	for _, v := range spectrum.Values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == minV {
		maxV = minV + 1
	}

	n := len(spectrum.Values)
	dc.SetRGB(0.2, 0.4, 0.9)
	dc.SetLineWidth(2)
	for i, v := range spectrum.Values {
		frac := 0.0
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		x := float64(plotArea.Min.X) + frac*float64(plotArea.Dx())
		y := float64(plotArea.Max.Y) - (v-minV)/(maxV-minV)*float64(plotArea.Dy())
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("%d nm", spectrum.Start), float64(plotArea.Min.X), float64(plotArea.Max.Y)+15, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("%d nm", spectrum.End), float64(plotArea.Max.X), float64(plotArea.Max.Y)+15, 1, 0)

	return dc.SavePNG(filename)
}

func drawAxes(dc *gg.Context, area image.Rectangle) {
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(area.Min.X), float64(area.Min.Y), float64(area.Dx()), float64(area.Dy()))
	dc.Stroke()
}

func setFont(dc *gg.Context, points float64) error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse embedded font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: points})
	dc.SetFontFace(face)
	return nil
}
