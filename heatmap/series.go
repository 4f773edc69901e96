package heatmap

import (
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// A Sample is the energy a building received at one instant.
type Sample struct {
	Time   time.Time
	Energy float64
}

// Day plots samples against time of day.
func Day(title string, samples []Sample) (*plot.Plot, error) {
	plt := newPlot(title)
	plt.X.Label.Text = "time of day (UTC)"
	plt.X.Tick.Marker = timeOfDayTicks{target: 6}
	plt.Y.Label.Text = "energy (W)"

	xys := make(plotter.XYs, len(samples))
	for i, s := range samples {
		_, tod := splitTime(s.Time.UTC())
		xys[i] = plotter.XY{X: float64(tod), Y: s.Energy}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{R: 255, G: 160, A: 255}
	plt.Add(line)
	return plt, nil
}

// Season returns a heat map of samples by day (across) and time of day
// (up). Samples must be sorted by time and spaced increment apart
// within each day.
func Season(title string, samples []Sample, increment time.Duration) *plot.Plot {
	plt := newPlot(title)
	plt.X.Tick.Marker = monthTicks{}
	plt.Y.Tick.Marker = timeOfDayTicks{target: 6}
	if g := newSeasonGrid(samples, increment); g != nil {
		hm := plotter.NewHeatMap(g, palette.Heat(256, 1))
		hm.Underflow = color.Black
		hm.Rasterized = true
		plt.Add(hm)
	}
	return plt
}

// newSeasonGrid arranges samples into a grid. It returns nil if no
// sample has any energy.
func newSeasonGrid(samples []Sample, increment time.Duration) *seasonGrid {
	if len(samples) == 0 || increment <= 0 {
		return nil
	}

	type cell struct {
		energy   float64
		col, row int
	}

	// Compute the visual locations on the heat map of each sample and
	// figure out the bounds of the heat map. We construct columns to
	// start from 0, but for the row range, we narrow down to just the
	// lit times.
	var cMax, rMin, rMax int
	startDay, _ := splitTime(samples[0].Time.UTC())
	lit := false
	cells := make([]cell, len(samples))
	for i, s := range samples {
		c := &cells[i]
		day, tod := splitTime(s.Time.UTC())
		c.energy = s.Energy
		c.col = int(day.Sub(startDay) / (24 * time.Hour))
		c.row = int(tod / increment)
		if c.col > cMax {
			cMax = c.col
		}
		if c.energy > 0 {
			if !lit || c.row < rMin {
				rMin = c.row
			}
			if !lit || c.row > rMax {
				rMax = c.row
			}
			lit = true
		}
	}
	if !lit {
		return nil
	}

	// Construct the grid.
	energy := make([][]float64, cMax+1)
	for i := range energy {
		energy[i] = make([]float64, rMax-rMin+1)
	}
	max := 0.0
	for _, c := range cells {
		if c.row < rMin || c.row > rMax {
			continue
		}
		energy[c.col][c.row-rMin] = c.energy
		if c.energy > max {
			max = c.energy
		}
	}
	return &seasonGrid{energy, startDay, time.Duration(rMin) * increment, increment, max}
}

type seasonGrid struct {
	energy    [][]float64
	startDay  time.Time
	startTOD  time.Duration
	increment time.Duration
	max       float64
}

func (sg *seasonGrid) Dims() (c, r int) {
	return len(sg.energy), len(sg.energy[0])
}

func (sg *seasonGrid) Z(c, r int) float64 {
	return sg.energy[c][r]
}

func (sg *seasonGrid) X(c int) float64 {
	t := sg.startDay.Add(time.Duration(c) * (24 * time.Hour))
	return float64(t.Unix())
}

func (sg *seasonGrid) Y(r int) float64 {
	return float64(sg.startTOD + time.Duration(r)*sg.increment)
}

func (sg *seasonGrid) Min() float64 {
	// Return a tiny positive value rather than 0 so that the "0" value
	// when the sun isn't in the sky renders in the underflow color.
	return sg.max * 1e-6
}

func (sg *seasonGrid) Max() float64 {
	return sg.max
}
