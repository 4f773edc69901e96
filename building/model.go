// Package building describes a building and breaks it into the
// surfaces the grid engine computes: walls, doors and roof segments.
package building

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/aclements/solargrid/grid"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidBuilding is returned for building descriptions that cannot
// be turned into surfaces.
var ErrInvalidBuilding = errors.New("invalid building")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBuilding, fmt.Sprintf(format, args...))
}

// A Building sits on one foundation. Walls are listed in order around
// the foundation and form a closed loop.
type Building struct {
	Foundation Foundation `yaml:"foundation" json:"foundation"`
	Walls      []Wall     `yaml:"walls" json:"walls"`
	Roofs      []Roof     `yaml:"roofs" json:"roofs"`
}

// A Foundation places the building in the world. All other coordinates
// are relative to it.
type Foundation struct {
	ID     string     `yaml:"id" json:"id"`
	Center [2]float64 `yaml:"center" json:"center"`
	Height float64    `yaml:"height" json:"height"`
	// Rotation is counter-clockwise, in degrees.
	Rotation float64 `yaml:"rotation" json:"rotation"`
}

// Frame returns the foundation's local-to-world transform.
func (f Foundation) Frame() grid.Frame {
	return grid.Frame{
		Center: r3.Vec{X: f.Center[0], Y: f.Center[1], Z: f.Height},
		Yaw:    f.Rotation * math.Pi / 180,
	}
}

type Wall struct {
	ID     string     `yaml:"id" json:"id"`
	Start  [2]float64 `yaml:"start" json:"start"`
	End    [2]float64 `yaml:"end" json:"end"`
	Height float64    `yaml:"height" json:"height"`

	Windows     []Opening `yaml:"windows" json:"windows,omitempty"`
	Doors       []Opening `yaml:"doors" json:"doors,omitempty"`
	SolarPanels []Opening `yaml:"solarPanels" json:"solarPanels,omitempty"`
}

// An Opening is a window, door or solar panel on a wall. Offset is the
// distance along the wall from its start to the opening's center and
// Bottom is the height of its lower edge above the wall base.
type Opening struct {
	ID     string  `yaml:"id" json:"id"`
	Offset float64 `yaml:"offset" json:"offset"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

type RoofKind string

const (
	Flat    RoofKind = "flat"
	Pyramid RoofKind = "pyramid"
	Hip     RoofKind = "hip"
	Gable   RoofKind = "gable"
	Mansard RoofKind = "mansard"
)

type Roof struct {
	ID   string   `yaml:"id" json:"id"`
	Kind RoofKind `yaml:"kind" json:"kind"`

	// Walls are the IDs of the walls the roof rests on, in loop order.
	// Empty means all walls.
	Walls []string `yaml:"walls" json:"walls,omitempty"`

	// Rise is the height of the ridge, apex or top above the eaves.
	Rise float64 `yaml:"rise" json:"rise"`

	// Overhang extends the roof outline past the walls.
	Overhang float64 `yaml:"overhang" json:"overhang"`

	// RidgeLength is the length of a hip roof's ridge.
	RidgeLength float64 `yaml:"ridgeLength" json:"ridgeLength"`

	// TopInset is how far a mansard roof's top is set in from its
	// eaves.
	TopInset float64 `yaml:"topInset" json:"topInset"`
}

// Load reads a building from a YAML file.
func Load(path string) (*Building, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading building file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a YAML building description, fills in missing IDs and
// validates it. JSON is a subset of YAML, so Parse accepts both.
func Parse(data []byte) (*Building, error) {
	var b Building
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("parsing building YAML: %w", err)
	}
	b.FillIDs()
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// FillIDs assigns random IDs to every element that has none.
func (b *Building) FillIDs() {
	fill := func(id *string) {
		if *id == "" {
			*id = uuid.NewString()
		}
	}
	fill(&b.Foundation.ID)
	for i := range b.Walls {
		w := &b.Walls[i]
		fill(&w.ID)
		for _, ops := range [][]Opening{w.Windows, w.Doors, w.SolarPanels} {
			for j := range ops {
				fill(&ops[j].ID)
			}
		}
	}
	for i := range b.Roofs {
		fill(&b.Roofs[i].ID)
	}
}

// Validate checks the building description for problems that would
// stop it from being broken into surfaces.
func (b *Building) Validate() error {
	if len(b.Walls) < 3 {
		return invalid("%d walls, need at least 3", len(b.Walls))
	}
	ids := make(map[string]bool)
	for _, w := range b.Walls {
		if ids[w.ID] {
			return invalid("duplicate wall %q", w.ID)
		}
		ids[w.ID] = true
		if !(w.Height > 0) {
			return invalid("wall %q: height %v", w.ID, w.Height)
		}
		if w.length() < 1e-9 {
			return invalid("wall %q has zero length", w.ID)
		}
		for _, ops := range [][]Opening{w.Windows, w.Doors, w.SolarPanels} {
			for _, o := range ops {
				if !(o.Width > 0) || !(o.Height > 0) {
					return invalid("wall %q: opening %q has size %v×%v", w.ID, o.ID, o.Width, o.Height)
				}
			}
		}
	}
	for i, w := range b.Walls {
		next := b.Walls[(i+1)%len(b.Walls)]
		if math.Hypot(next.Start[0]-w.End[0], next.Start[1]-w.End[1]) > 1e-6 {
			return invalid("wall %q does not end where %q starts", w.ID, next.ID)
		}
	}
	for _, r := range b.Roofs {
		if err := b.validateRoof(r, ids); err != nil {
			return err
		}
	}
	return nil
}

func (b *Building) validateRoof(r Roof, walls map[string]bool) error {
	n := len(r.Walls)
	for _, id := range r.Walls {
		if !walls[id] {
			return invalid("roof %q: unknown wall %q", r.ID, id)
		}
	}
	if n == 0 {
		n = len(b.Walls)
	}
	if n < 3 {
		return invalid("roof %q rests on %d walls", r.ID, n)
	}
	if r.Overhang < 0 || math.IsNaN(r.Overhang) {
		return invalid("roof %q: overhang %v", r.ID, r.Overhang)
	}
	switch r.Kind {
	case Flat:
		return nil
	case Pyramid:
	case Hip, Gable:
		if n != 4 {
			return invalid("%s roof %q needs 4 walls, has %d", r.Kind, r.ID, n)
		}
		if r.Kind == Hip && !(r.RidgeLength >= 0) {
			return invalid("roof %q: ridge length %v", r.ID, r.RidgeLength)
		}
	case Mansard:
		if !(r.TopInset > 0) {
			return invalid("roof %q: top inset %v", r.ID, r.TopInset)
		}
	default:
		return invalid("roof %q: unknown kind %q", r.ID, r.Kind)
	}
	if !(r.Rise > 0) {
		return invalid("roof %q: rise %v", r.ID, r.Rise)
	}
	_, err := b.roofSegments(r)
	return err
}

func (w Wall) length() float64 {
	return math.Hypot(w.End[0]-w.Start[0], w.End[1]-w.Start[1])
}
