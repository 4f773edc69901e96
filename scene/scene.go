// Package scene answers shadow queries against a static triangle scene.
package scene

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// A Scene is a set of occluding layers. Build it up front; once an
// Oracle is in use the Scene must not be modified.
type Scene struct {
	layers []*layer
}

type layer struct {
	name string

	// owner is the surface ID this layer belongs to, if any. Shadow
	// queries from that surface skip the layer.
	owner string

	tris   []r3.Triangle
	bounds box

	// transmissivity returns the transmissivity of this layer on the
	// given day of the year in a range of 0 to 1. For a fully opaque
	// layer, this returns 0. For foliage, this varies over the year.
	transmissivity func(dayOfYear int) float64
}

func New() *Scene {
	return new(Scene)
}

func opaque(int) float64 { return 0 }

// AddSurface adds an opaque polygon owned by the surface id. The
// polygon must be convex; it is triangulated as a fan.
func (s *Scene) AddSurface(id string, poly []r3.Vec) {
	if len(poly) < 3 {
		return
	}
	tris := make([]r3.Triangle, 0, len(poly)-2)
	for i := 1; i+1 < len(poly); i++ {
		tris = append(tris, r3.Triangle{poly[0], poly[i], poly[i+1]})
	}
	s.addLayer(id, id, tris, opaque)
}

// AddBuildings adds opaque triangles that belong to no surface.
func (s *Scene) AddBuildings(name string, tris []r3.Triangle) {
	s.addLayer(name, "", tris, opaque)
}

// AddFoliage adds trees. Their transmissivity follows the seasons.
func (s *Scene) AddFoliage(name string, tris []r3.Triangle) {
	s.addLayer(name, "", tris, foliageTransmissivity)
}

// LoadSTL reads a binary STL file and adds it as buildings or foliage.
// scale converts the file's units to world units.
func (s *Scene) LoadSTL(stlPath string, scale float64, foliage bool) error {
	f, err := os.Open(stlPath)
	if err != nil {
		return err
	}
	defer f.Close()
	mesh, err := ReadSTL(f)
	if err != nil {
		return fmt.Errorf("%s: %w", stlPath, err)
	}
	if foliage {
		s.AddFoliage(stlPath, mesh.Triangles(scale))
	} else {
		s.AddBuildings(stlPath, mesh.Triangles(scale))
	}
	return nil
}

func (s *Scene) addLayer(name, owner string, tris []r3.Triangle, trans func(int) float64) {
	if len(tris) == 0 {
		return
	}
	b := emptyBox()
	for _, tri := range tris {
		for _, v := range tri {
			b.extend(v)
		}
	}
	s.layers = append(s.layers, &layer{name, owner, tris, b, trans})
}

// Triangles returns every triangle in the scene, layer by layer.
func (s *Scene) Triangles() []r3.Triangle {
	tris := make([]r3.Triangle, 0, s.Len())
	for _, l := range s.layers {
		tris = append(tris, l.tris...)
	}
	return tris
}

// Len returns the number of triangles in the scene.
func (s *Scene) Len() int {
	n := 0
	for _, l := range s.layers {
		n += len(l.tris)
	}
	return n
}

func foliageTransmissivity(day int) float64 {
	// Based on Transmissivity of solar radiation through crowns of
	// single urban trees: application for outdoor thermal comfort
	// modelling. Konarska, et al.
	//
	// Foliated and defoliated trees have ~5% and ~50%
	// transmissivity, respectively. Use the meteorological seasons
	// to interpolate between these.
	//
	// TODO: This assumes northern hemisphere, and mid-latitudes at
	// that.
	const (
		// Assume a normal year. This is all approximate anyway.
		Feb28 = 59
		May31 = 151
		Aug31 = 243
		Nov30 = 334
	)
	switch {
	default: // Winter
		fallthrough
	case day <= Feb28: // Winter
		return 0.5
	case day <= May31: // Spring
		return 0.5 + float64(day-Feb28)/(May31-Feb28)*(0.05-0.5)
	case day <= Aug31: // Summer
		return 0.05
	case day <= Nov30: // Fall
		return 0.05 + float64(day-Aug31)/(Nov30-Aug31)*(0.5-0.05)
	}
}

// ShadeThreshold is the transmitted fraction of direct light below
// which a point counts as shaded.
const ShadeThreshold = 0.5

// rayOffset lifts shadow rays off the surface they start on.
const rayOffset = 1e-4

// An Oracle answers shadow queries for one day of the year. It is safe
// for concurrent use.
type Oracle struct {
	scene *Scene
	day   int
}

// Oracle returns a shadow oracle for the given day of the year.
func (s *Scene) Oracle(dayOfYear int) *Oracle {
	return &Oracle{s, dayOfYear}
}

// InShadow reports whether the light reaching point from direction sun
// falls below ShadeThreshold. Layers owned by surfaceID are ignored.
func (o *Oracle) InShadow(surfaceID string, point, sun r3.Vec) bool {
	dir := r3.Unit(sun)
	ray := Ray{Origin: point, Dir: dir}
	ray.Origin = ray.Along(rayOffset)
	light := 1.0
	for _, l := range o.scene.layers {
		if l.owner != "" && l.owner == surfaceID {
			continue
		}
		if !l.bounds.hitBy(&ray) || !ray.hits(l.tris) {
			continue
		}
		light *= l.transmissivity(o.day)
		if light < ShadeThreshold {
			return true
		}
	}
	return false
}
