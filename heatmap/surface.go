package heatmap

import (
	"image/color"
	"math"

	"github.com/aclements/solargrid/grid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// Surface returns a heat map of the energy on each cell of g. Cells
// that received nothing, such as windows, are black.
func Surface(g *grid.EnergyGrid) *plot.Plot {
	plt := newPlot(g.SurfaceID)
	plt.X.Label.Text = "cell"
	plt.Y.Label.Text = "cell"

	hm := plotter.NewHeatMap(energyGrid{g}, palette.Heat(256, 1))
	hm.Underflow = color.Black
	hm.Rasterized = true
	plt.Add(hm)
	return plt
}

// energyGrid adapts an EnergyGrid to plotter.GridXYZ.
type energyGrid struct {
	g *grid.EnergyGrid
}

func (e energyGrid) Dims() (c, r int) { return e.g.Dims() }

func (e energyGrid) Z(c, r int) float64 { return e.g.Energy[c][r] }

func (e energyGrid) X(c int) float64 { return float64(c) }

func (e energyGrid) Y(r int) float64 { return float64(r) }

// Min returns the smallest non-zero energy so that empty cells render
// in the underflow color.
func (e energyGrid) Min() float64 {
	min := math.Inf(1)
	for _, col := range e.g.Energy {
		for _, v := range col {
			if v > 0 && v < min {
				min = v
			}
		}
	}
	if math.IsInf(min, 1) {
		return 0
	}
	if max := e.Max(); min >= max {
		// A uniform grid. Leave room for the palette.
		return max / 2
	}
	return min
}

func (e energyGrid) Max() float64 {
	if max := e.g.Max(); max > 0 {
		return max
	}
	return 1
}
