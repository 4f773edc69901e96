package grid

import (
	"github.com/aclements/solargrid/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// triangleMargin pads the triangle membership polygon, in cell index
// units, so boundary cells are not lost to floating-point jitter.
const triangleMargin = 0.01

func (s Segment) build(env *Env) *EnergyGrid {
	if s.Kind == AxisAlignedRect {
		return s.buildCap(env)
	}
	return s.buildSloped(env)
}

func (s Segment) buildSloped(env *Env) *EnergyGrid {
	s0 := s.Frame.ToWorld(s.BaseLeft)
	s1 := s.Frame.ToWorld(s.BaseRight)
	s2 := s.Frame.ToWorld(s.RidgeLeft)
	b := geom.NewBasis(s0, s1, s2)

	m, n := env.Config.cells(b.Length), env.Config.cells(b.Height)

	// Start from half-cell steps so v0 is the center of cell (0, 0),
	// then widen them to full cells.
	dm := r3.Scale(0.5*b.Length/float64(m), b.Along)
	dn := r3.Scale(0.5*b.Height/float64(n), b.Across)
	v0 := r3.Add(s0, r3.Add(dm, dn))
	dm = r3.Scale(2, dm)
	dn = r3.Scale(2, dn)

	g := newEnergyGrid(s.ID, m, n, r3.Norm(dm)*r3.Norm(dn), b.Normal)
	acc := env.newAccumulator(s.ID, b.Normal, g.CellArea)

	var tri []r2.Vec
	if s.Kind == Triangle {
		m2 := 0.0
		if b.Length > 0 {
			m2 = float64(m) * b.Apex / b.Length
		}
		tri = []r2.Vec{
			{X: -triangleMargin, Y: -triangleMargin},
			{X: float64(m) + triangleMargin, Y: -triangleMargin},
			{X: m2, Y: float64(n) + triangleMargin},
		}
	}

	for p := 0; p < m; p++ {
		for q := 0; q < n; q++ {
			if tri != nil && !geom.PointInPolygon(r2.Vec{X: float64(p), Y: float64(q)}, tri) {
				continue
			}
			pt := r3.Add(v0, r3.Add(r3.Scale(float64(p), dm), r3.Scale(float64(q), dn)))
			acc.add(&g.Energy[p][q], pt)
		}
	}
	return g
}

func (s Segment) buildCap(env *Env) *EnergyGrid {
	t := s.Top()
	lx, ly := t.MaxX-t.MinX, t.MaxY-t.MinY
	nx, ny := env.Config.cells(lx), env.Config.cells(ly)
	dx, dy := lx/float64(nx), ly/float64(ny)
	if !(dx > 0) || !(dy > 0) {
		dx, dy = 0, 0
	}

	g := newEnergyGrid(s.ID, nx, ny, dx*dy, geom.Up)
	acc := env.newAccumulator(s.ID, geom.Up, g.CellArea)
	for i := 0; i < nx; i++ {
		x := t.MinX + (float64(i)+0.5)*dx
		for j := 0; j < ny; j++ {
			y := t.MinY + (float64(j)+0.5)*dy
			acc.add(&g.Energy[i][j], r3.Vec{X: x, Y: y, Z: t.Z})
		}
	}
	return g
}
