package building

import (
	"fmt"
	"math"

	"github.com/aclements/solargrid/geom"
	"github.com/aclements/solargrid/grid"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// roofWalls returns the walls r rests on, in loop order.
func (b *Building) roofWalls(r Roof) []Wall {
	if len(r.Walls) == 0 {
		return b.Walls
	}
	byID := make(map[string]Wall, len(b.Walls))
	for _, w := range b.Walls {
		byID[w.ID] = w
	}
	walls := make([]Wall, 0, len(r.Walls))
	for _, id := range r.Walls {
		if w, ok := byID[id]; ok {
			walls = append(walls, w)
		}
	}
	return walls
}

// eaveHeight is the height of a roof's eaves above the foundation: the
// top of the tallest wall it rests on.
func eaveHeight(walls []Wall) float64 {
	h := 0.0
	for _, w := range walls {
		h = math.Max(h, w.Height)
	}
	return h
}

// roofSegments breaks r into grid segments. Segment i has ID
// "{roof ID}-{i}".
func (b *Building) roofSegments(r Roof) ([]grid.Segment, error) {
	walls := b.roofWalls(r)
	outline := make([]r2.Vec, len(walls))
	for i, w := range walls {
		outline[i] = r2.Vec{X: w.Start[0], Y: w.Start[1]}
	}
	outline, _ = geom.EnsureCCW(outline)
	if math.Abs(geom.SignedArea(outline)) < geom.Epsilon {
		return nil, invalid("roof %q has no area", r.ID)
	}
	if r.Overhang > 0 {
		outline = geom.OffsetPolygon(outline, -r.Overhang)
	}

	eave := eaveHeight(walls)
	top := eave + r.Rise
	at := func(p r2.Vec, z float64) r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: z} }

	f := b.Foundation.Frame()
	var segs []grid.Segment
	add := func(s grid.Segment, err error) error {
		if err != nil {
			return fmt.Errorf("roof %q: %w", r.ID, err)
		}
		segs = append(segs, s)
		return nil
	}
	id := func() string { return fmt.Sprintf("%s-%d", r.ID, len(segs)) }
	n := len(outline)
	edge := func(i int) (r3.Vec, r3.Vec) {
		return at(outline[i], eave), at(outline[(i+1)%n], eave)
	}

	switch r.Kind {
	case Flat:
		rim := make([]r3.Vec, n)
		for i, p := range outline {
			rim[i] = at(p, eave)
		}
		if err := add(grid.NewCap(id(), f, rim)); err != nil {
			return nil, err
		}

	case Pyramid:
		apex := at(geom.Centroid(outline), top)
		for i := range outline {
			bl, br := edge(i)
			if err := add(grid.NewTriangle(id(), f, bl, br, apex)); err != nil {
				return nil, err
			}
		}

	case Hip:
		// The ridge runs parallel to the front edge, centered over the
		// roof.
		front := r2.Sub(outline[1], outline[0])
		half := r2.Scale(math.Min(r.RidgeLength, r2.Norm(front))/2, r2.Unit(front))
		c := geom.Centroid(outline)
		r0 := at(r2.Sub(c, half), top)
		r1 := at(r2.Add(c, half), top)

		q0, q1 := edge(0)
		q2, q3 := edge(2)
		for _, s := range []func() (grid.Segment, error){
			func() (grid.Segment, error) { return grid.NewTrapezoid(id(), f, q0, q1, r0, r1) },
			func() (grid.Segment, error) { return grid.NewTriangle(id(), f, q1, q2, r1) },
			func() (grid.Segment, error) { return grid.NewTrapezoid(id(), f, q2, q3, r1, r0) },
			func() (grid.Segment, error) { return grid.NewTriangle(id(), f, q3, q0, r0) },
		} {
			if err := add(s()); err != nil {
				return nil, err
			}
		}

	case Gable:
		// The ridge joins the middles of the end edges 3 and 1.
		q0, q1 := edge(0)
		q2, q3 := edge(2)
		m1 := at(geom.Flat(r3.Scale(0.5, r3.Add(q1, q2))), top)
		m3 := at(geom.Flat(r3.Scale(0.5, r3.Add(q3, q0))), top)
		if err := add(grid.NewTrapezoid(id(), f, q0, q1, m3, m1)); err != nil {
			return nil, err
		}
		if err := add(grid.NewTrapezoid(id(), f, q2, q3, m1, m3)); err != nil {
			return nil, err
		}

	case Mansard:
		inner := geom.OffsetPolygon(outline, r.TopInset)
		if geom.SignedArea(inner) < geom.Epsilon {
			return nil, invalid("roof %q: top inset %v leaves no top", r.ID, r.TopInset)
		}
		// Each top edge must run the same way as the eave below it.
		// An inset past the opposite wall turns edges around while
		// leaving the area positive.
		for i := range outline {
			j := (i + 1) % n
			if r2.Dot(r2.Sub(inner[j], inner[i]), r2.Sub(outline[j], outline[i])) <= 0 {
				return nil, invalid("roof %q: top inset %v leaves no top", r.ID, r.TopInset)
			}
		}
		for i := range outline {
			bl, br := edge(i)
			tl, tr := at(inner[i], top), at(inner[(i+1)%n], top)
			if err := add(grid.NewTrapezoid(id(), f, bl, br, tl, tr)); err != nil {
				return nil, err
			}
		}
		rim := make([]r3.Vec, n)
		for i, p := range inner {
			rim[i] = at(p, top)
		}
		if err := add(grid.NewCap(id(), f, rim)); err != nil {
			return nil, err
		}

	default:
		return nil, invalid("roof %q: unknown kind %q", r.ID, r.Kind)
	}
	return segs, nil
}
