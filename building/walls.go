package building

import (
	"math"

	"github.com/aclements/solargrid/geom"
	"github.com/aclements/solargrid/grid"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// counterClockwise reports whether the walls run counter-clockwise
// when seen from above.
func (b *Building) counterClockwise() bool {
	return geom.SignedArea(b.footprint()) >= 0
}

func (b *Building) footprint() []r2.Vec {
	poly := make([]r2.Vec, len(b.Walls))
	for i, w := range b.Walls {
		poly[i] = r2.Vec{X: w.Start[0], Y: w.Start[1]}
	}
	return poly
}

// gablePeaks returns, for each gable-end wall, the height of the ridge
// above the wall base.
func (b *Building) gablePeaks() map[string]float64 {
	peaks := make(map[string]float64)
	for _, r := range b.Roofs {
		if r.Kind != Gable {
			continue
		}
		walls := b.roofWalls(r)
		if len(walls) != 4 {
			continue
		}
		top := eaveHeight(walls) + r.Rise
		for _, i := range []int{1, 3} {
			peaks[walls[i].ID] = math.Max(peaks[walls[i].ID], top)
		}
	}
	return peaks
}

// wallSurfaces returns the surface of w and one surface per door in it.
//
// The wall's local x axis runs against the direction of the loop, so
// that the normal, x turned by +90°, faces out of the building.
func (b *Building) wallSurfaces(w Wall, ccw bool, peak float64) (grid.Rectangular, []grid.Rectangular, error) {
	f := b.Foundation.Frame()
	start := f.ToWorld(r3.Vec{X: w.Start[0], Y: w.Start[1]})
	end := f.ToWorld(r3.Vec{X: w.End[0], Y: w.End[1]})

	axis, sign := r3.Sub(start, end), 1.0
	if !ccw {
		axis, sign = r3.Sub(end, start), -1
	}
	angle := math.Atan2(axis.Y, axis.X)
	length := w.length()
	// localX returns the local x of a point offset along the wall from
	// its start.
	localX := func(offset float64) float64 {
		return sign * (length/2 - offset)
	}

	lz := math.Max(w.Height, peak)
	wall := grid.Rectangular{
		ID:     w.ID,
		Width:  length,
		Height: lz,
		Origin: r3.Scale(0.5, r3.Add(start, end)),
		Angle:  angle,
	}
	if lz > w.Height {
		hx, hz := length/2, lz/2
		wall.Outline = []r2.Vec{
			{X: -hx, Y: -hz},
			{X: hx, Y: -hz},
			{X: hx, Y: w.Height - hz},
			{X: 0, Y: hz},
			{X: -hx, Y: w.Height - hz},
		}
	}
	for _, ops := range [][]Opening{w.Windows, w.Doors, w.SolarPanels} {
		for _, o := range ops {
			wall.Exclusions = append(wall.Exclusions, grid.Rect{
				CX:     localX(o.Offset) / length,
				CZ:     (o.Bottom + o.Height/2 - lz/2) / lz,
				Width:  o.Width / length,
				Height: o.Height / lz,
			})
		}
	}
	if err := wall.Validate(); err != nil {
		return grid.Rectangular{}, nil, err
	}

	var doors []grid.Rectangular
	dir := r3.Unit(axis)
	for _, d := range w.Doors {
		origin := r3.Add(wall.Origin, r3.Add(r3.Scale(localX(d.Offset), dir), r3.Scale(d.Bottom, geom.Up)))
		door, err := grid.NewRectangular(d.ID, d.Width, d.Height, origin, angle)
		if err != nil {
			return grid.Rectangular{}, nil, err
		}
		doors = append(doors, door)
	}
	return wall, doors, nil
}
