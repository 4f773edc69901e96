package building

import (
	"context"

	"github.com/aclements/solargrid/grid"
	"github.com/aclements/solargrid/scene"
)

type elementKind int

const (
	wallElement elementKind = iota
	doorElement
	roofElement
)

// A part is one surface and the building element it belongs to.
type part struct {
	kind    elementKind
	element string
	surface grid.Surface
}

func (b *Building) parts() ([]part, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	var parts []part
	ccw := b.counterClockwise()
	peaks := b.gablePeaks()
	for _, w := range b.Walls {
		wall, doors, err := b.wallSurfaces(w, ccw, peaks[w.ID])
		if err != nil {
			return nil, err
		}
		parts = append(parts, part{wallElement, w.ID, wall})
		for _, d := range doors {
			parts = append(parts, part{doorElement, d.ID, d})
		}
	}
	for _, r := range b.Roofs {
		segs, err := b.roofSegments(r)
		if err != nil {
			return nil, err
		}
		for _, s := range segs {
			parts = append(parts, part{roofElement, r.ID, s})
		}
	}
	return parts, nil
}

// Surfaces returns every wall, door and roof segment of the building.
// Walls come first, each followed by its doors, then the roofs'
// segments in order.
func (b *Building) Surfaces() ([]grid.Surface, error) {
	parts, err := b.parts()
	if err != nil {
		return nil, err
	}
	return surfacesOf(parts), nil
}

func surfacesOf(parts []part) []grid.Surface {
	surfaces := make([]grid.Surface, len(parts))
	for i, p := range parts {
		surfaces[i] = p.surface
	}
	return surfaces
}

// AddTo adds the walls and roof segments of the building to s as
// occluders. Doors lie in their walls' planes and are not added.
func (b *Building) AddTo(s *scene.Scene) error {
	parts, err := b.parts()
	if err != nil {
		return err
	}
	for _, p := range parts {
		if p.kind != doorElement {
			s.AddSurface(p.surface.SurfaceID(), p.surface.Polygon())
		}
	}
	return nil
}

// Result holds the energy grids of a building, keyed by element ID.
// A roof has one grid per segment, in segment order.
type Result struct {
	Walls map[string]*grid.EnergyGrid   `json:"walls"`
	Doors map[string]*grid.EnergyGrid   `json:"doors"`
	Roofs map[string][]*grid.EnergyGrid `json:"roofs"`
}

// Total returns the energy received by the whole building.
func (r *Result) Total() float64 {
	total := 0.0
	for _, g := range r.Walls {
		total += g.Total()
	}
	for _, g := range r.Doors {
		total += g.Total()
	}
	for _, gs := range r.Roofs {
		for _, g := range gs {
			total += g.Total()
		}
	}
	return total
}

// Energy computes the grids of every surface of the building using up
// to workers goroutines.
func (b *Building) Energy(ctx context.Context, env *grid.Env, workers int) (*Result, error) {
	parts, err := b.parts()
	if err != nil {
		return nil, err
	}
	grids, err := grid.ComputeAll(ctx, env, surfacesOf(parts), workers)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Walls: make(map[string]*grid.EnergyGrid),
		Doors: make(map[string]*grid.EnergyGrid),
		Roofs: make(map[string][]*grid.EnergyGrid),
	}
	for i, p := range parts {
		switch p.kind {
		case wallElement:
			res.Walls[p.element] = grids[i]
		case doorElement:
			res.Doors[p.element] = grids[i]
		case roofElement:
			res.Roofs[p.element] = append(res.Roofs[p.element], grids[i])
		}
	}
	return res, nil
}
