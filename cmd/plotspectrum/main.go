// Command plotspectrum renders a SpectralData channel to a PNG, a
// developer convenience for inspecting camera/illuminant/training
// curves, in the same spirit as the teacher's cmd/estacker.
package main

import (
	"flag"
	"log"

	"github.com/rta-go/colorcore/internal/rtio"
	"github.com/rta-go/colorcore/pkg/rtplot"
)

var (
	fInput   string
	fChannel string
	fOutput  string
)

func init() {
	flag.StringVar(&fInput, "in", "", "path to a SpectralData JSON file")
	flag.StringVar(&fChannel, "channel", "power", "channel name to plot")
	flag.StringVar(&fOutput, "out", "spectrum.png", "output PNG path")
	flag.Parse()
}

func main() {
	if fInput == "" {
		log.Fatal("plotspectrum requires -in")
	}

	data, err := rtio.LoadSpectralData(fInput)
	if err != nil {
		log.Fatalf("load %s: %v", fInput, err)
	}

	spectrum, err := data.Channel(fChannel)
	if err != nil {
		log.Fatalf("channel %q: %v", fChannel, err)
	}

	title := data.Manufacturer + " " + data.Model + " " + fChannel
	if err := rtplot.Plot(title, spectrum, fOutput); err != nil {
		log.Fatalf("plot: %v", err)
	}
}
