package grid

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// An EnergyGrid holds the energy deposited in each cell of a surface
// for one instant. Values are irradiance multiplied by cell area, not
// irradiance.
type EnergyGrid struct {
	SurfaceID string `json:"surfaceId"`

	// Nx and Ny are the number of cells along the surface's first and
	// second axes (width and height for walls, base and slope for roof
	// segments, X and Y for caps).
	Nx int `json:"nx"`
	Ny int `json:"ny"`

	// CellArea is the area of each cell.
	CellArea float64 `json:"cellArea"`

	Normal r3.Vec `json:"normal"`

	// Energy is indexed [x][y].
	Energy [][]float64 `json:"energy"`
}

func newEnergyGrid(id string, nx, ny int, da float64, normal r3.Vec) *EnergyGrid {
	backing := make([]float64, nx*ny)
	energy := make([][]float64, nx)
	for i := range energy {
		energy[i] = backing[i*ny : (i+1)*ny : (i+1)*ny]
	}
	return &EnergyGrid{SurfaceID: id, Nx: nx, Ny: ny, CellArea: da, Normal: normal, Energy: energy}
}

// Dims returns the grid dimensions.
func (g *EnergyGrid) Dims() (nx, ny int) {
	return g.Nx, g.Ny
}

// Area returns the area covered by all cells, valid or not.
func (g *EnergyGrid) Area() float64 {
	return float64(g.Nx*g.Ny) * g.CellArea
}

// Total returns the energy deposited on the whole surface.
func (g *EnergyGrid) Total() float64 {
	total := 0.0
	for _, col := range g.Energy {
		total += floats.Sum(col)
	}
	return total
}

// Max returns the largest cell energy.
func (g *EnergyGrid) Max() float64 {
	max := 0.0
	for _, col := range g.Energy {
		if len(col) > 0 {
			if m := floats.Max(col); m > max {
				max = m
			}
		}
	}
	return max
}
