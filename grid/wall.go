package grid

import (
	"github.com/aclements/solargrid/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

func (r Rectangular) build(env *Env) *EnergyGrid {
	lx, lz := r.Width, r.Height
	nx, nz := env.Config.cells(lx), env.Config.cells(lz)
	dx, dz := lx/float64(nx), lz/float64(nz)
	if !(dx > 0) || !(dz > 0) {
		dx, dz = 0, 0
	}

	normal := r.Normal()

	g := newEnergyGrid(r.ID, nx, nz, dx*dz, normal)
	acc := env.newAccumulator(r.ID, normal, g.CellArea)
	for kx := 0; kx < nx; kx++ {
		x := (float64(kx)+0.5)*dx - lx/2
		for kz := 0; kz < nz; kz++ {
			z := (float64(kz)+0.5)*dz - lz/2
			if !r.isSurface(x, z) {
				continue
			}
			acc.add(&g.Energy[kx][kz], r.ToWorld(r2.Vec{X: x, Y: z}))
		}
	}
	return g
}

// isSurface reports whether the local point (x, z) is on the wall
// itself rather than outside its outline or on an opening.
func (r Rectangular) isSurface(x, z float64) bool {
	if len(r.Outline) > 0 && !geom.PointInPolygon(r2.Vec{X: x, Y: z}, r.Outline) {
		return false
	}
	for _, ex := range r.Exclusions {
		if ex.contains(x, z, r.Width, r.Height) {
			return false
		}
	}
	return true
}
