// Package plot renders monthly income/expense series for the
// terminal. The Renderer port keeps the charting collaborator
// swappable and lets the CLI degrade to a warning when none is wired.
package plot

import (
	"errors"
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// Renderer draws an income and an expense series over month labels.
type Renderer interface {
	Render(labels []string, income, expense []float64) (string, error)
}

// ErrNoData is returned when both series are empty.
var ErrNoData = errors.New("no data to plot")

// AsciiRenderer draws both series as a line chart in the terminal.
type AsciiRenderer struct {
	Height int // rows; 0 means a sensible default
}

func (r AsciiRenderer) Render(labels []string, income, expense []float64) (string, error) {
	if len(labels) == 0 {
		return "", ErrNoData
	}

	height := r.Height
	if height <= 0 {
		height = 10
	}

	chart := asciigraph.PlotMany(
		[][]float64{income, expense},
		asciigraph.Height(height),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("income (green) vs expense (red), %s to %s",
			labels[0], labels[len(labels)-1])),
	)
	return chart, nil
}
