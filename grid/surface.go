package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/solargrid/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidSurfaceGeometry is returned for surfaces whose shape cannot
// be discretized: coincident or collinear vertices, or non-positive
// extents.
var ErrInvalidSurfaceGeometry = errors.New("invalid surface geometry")

func invalid(id, format string, args ...any) error {
	return fmt.Errorf("%w: surface %q: %s", ErrInvalidSurfaceGeometry, id, fmt.Sprintf(format, args...))
}

// A Surface is one unit of work for the engine: a wall, a door or a
// roof segment.
type Surface interface {
	// SurfaceID is the identifier passed to the shadow oracle.
	SurfaceID() string

	// Validate reports whether the surface can be discretized.
	Validate() error

	// Polygon returns the outline of the surface in world coordinates.
	Polygon() []r3.Vec

	build(env *Env) *EnergyGrid
}

// A Frame places foundation-local coordinates in the world: points are
// rotated about the vertical by Yaw radians, then moved by Center.
type Frame struct {
	Center r3.Vec
	Yaw    float64
}

// ToWorld maps a foundation-local point to world coordinates.
func (f Frame) ToWorld(p r3.Vec) r3.Vec {
	return r3.Add(geom.RotateZ(p, f.Yaw), f.Center)
}

// A Rect is an axis-aligned rectangle on a wall, in fractions of the
// wall's width and height. CX and CZ locate its center relative to the
// wall's center.
type Rect struct {
	CX, CZ        float64
	Width, Height float64
}

func (r Rect) contains(x, z, lx, lz float64) bool {
	return math.Abs(x-r.CX*lx) < r.Width*lx/2 && math.Abs(z-r.CZ*lz) < r.Height*lz/2
}

// Rectangular is a vertical wall or door.
//
// Its local frame is centered on the surface: x runs along Angle from
// -Width/2 to Width/2 and z runs up from -Height/2 to Height/2. The
// outward normal is the direction (cos Angle, sin Angle) turned by +90°.
type Rectangular struct {
	ID string

	// Width and Height are the extents of the surface. Height is the
	// highest point of the wall, which may exceed its nominal height
	// under a gable.
	Width, Height float64

	// Origin is the world position of the center of the base.
	Origin r3.Vec

	// Angle is the world direction of the local x axis, in radians.
	Angle float64

	// Outline is the true shape of the surface in the local frame. An
	// empty outline is the full Width×Height rectangle.
	Outline []r2.Vec

	// Exclusions are the windows, doors and solar panels on a wall.
	// Cells inside them receive no energy.
	Exclusions []Rect
}

// NewRectangular returns a validated wall or door.
func NewRectangular(id string, width, height float64, origin r3.Vec, angle float64) (Rectangular, error) {
	r := Rectangular{ID: id, Width: width, Height: height, Origin: origin, Angle: angle}
	if err := r.Validate(); err != nil {
		return Rectangular{}, err
	}
	return r, nil
}

func (r Rectangular) SurfaceID() string { return r.ID }

func (r Rectangular) Validate() error {
	if !(r.Width > 0) || !(r.Height > 0) || math.IsInf(r.Width, 0) || math.IsInf(r.Height, 0) {
		return invalid(r.ID, "extent %v×%v", r.Width, r.Height)
	}
	if !finite(r.Origin) || math.IsNaN(r.Angle) || math.IsInf(r.Angle, 0) {
		return invalid(r.ID, "non-finite placement")
	}
	if len(r.Outline) > 0 && (len(r.Outline) < 3 || math.Abs(geom.SignedArea(r.Outline)) < geom.Epsilon) {
		return invalid(r.ID, "degenerate outline")
	}
	return nil
}

// Normal returns the outward unit normal of the surface.
func (r Rectangular) Normal() r3.Vec {
	s, c := math.Sincos(r.Angle)
	return r3.Vec{X: -s, Y: c}
}

// ToWorld maps a point of the centered local frame to world
// coordinates.
func (r Rectangular) ToWorld(p r2.Vec) r3.Vec {
	s, c := math.Sincos(r.Angle)
	axis := r3.Vec{X: c, Y: s}
	return r3.Add(r.Origin, r3.Add(r3.Scale(p.X, axis), r3.Scale(p.Y+r.Height/2, geom.Up)))
}

func (r Rectangular) Polygon() []r3.Vec {
	outline := r.Outline
	if len(outline) == 0 {
		hx, hz := r.Width/2, r.Height/2
		outline = []r2.Vec{{X: -hx, Y: -hz}, {X: hx, Y: -hz}, {X: hx, Y: hz}, {X: -hx, Y: hz}}
	}
	poly := make([]r3.Vec, len(outline))
	for i, p := range outline {
		poly[i] = r.ToWorld(p)
	}
	return poly
}

// A SegmentKind says how a roof segment is discretized.
type SegmentKind uint8

const (
	// Trapezoid segments are discretized over the full parallelogram
	// spanned by the base edge and the ridge height.
	Trapezoid SegmentKind = iota
	// Triangle segments keep only the cells inside the triangle.
	Triangle
	// AxisAlignedRect segments are horizontal caps discretized over
	// their world-aligned bounding rectangle.
	AxisAlignedRect
)

func (k SegmentKind) String() string {
	switch k {
	case Trapezoid:
		return "trapezoid"
	case Triangle:
		return "triangle"
	case AxisAlignedRect:
		return "rect"
	}
	return fmt.Sprintf("SegmentKind(%d)", uint8(k))
}

// A Segment is one structural face of a roof. Vertices are in the
// foundation-local frame.
type Segment struct {
	ID    string
	Kind  SegmentKind
	Frame Frame

	// BaseLeft and BaseRight are the ends of the eave edge, ordered
	// counter-clockwise around the roof outline.
	BaseLeft, BaseRight r3.Vec

	// RidgeLeft is the apex of a Triangle or the ridge end above
	// BaseLeft of a Trapezoid. RidgeRight is only used by Trapezoid.
	RidgeLeft, RidgeRight r3.Vec

	// Cap holds the outline of an AxisAlignedRect segment.
	Cap []r3.Vec
}

// NewTriangle returns a triangular roof segment.
func NewTriangle(id string, f Frame, baseLeft, baseRight, apex r3.Vec) (Segment, error) {
	s := Segment{ID: id, Kind: Triangle, Frame: f, BaseLeft: baseLeft, BaseRight: baseRight, RidgeLeft: apex}
	return checked(s)
}

// NewTrapezoid returns a four-sided roof segment.
func NewTrapezoid(id string, f Frame, baseLeft, baseRight, ridgeLeft, ridgeRight r3.Vec) (Segment, error) {
	s := Segment{ID: id, Kind: Trapezoid, Frame: f, BaseLeft: baseLeft, BaseRight: baseRight, RidgeLeft: ridgeLeft, RidgeRight: ridgeRight}
	return checked(s)
}

// NewCap returns a horizontal roof cap over the given outline.
func NewCap(id string, f Frame, outline []r3.Vec) (Segment, error) {
	s := Segment{ID: id, Kind: AxisAlignedRect, Frame: f, Cap: append([]r3.Vec(nil), outline...)}
	return checked(s)
}

func checked(s Segment) (Segment, error) {
	if err := s.Validate(); err != nil {
		return Segment{}, err
	}
	return s, nil
}

func (s Segment) SurfaceID() string { return s.ID }

func (s Segment) Validate() error {
	if !finite(s.Frame.Center) || math.IsNaN(s.Frame.Yaw) || math.IsInf(s.Frame.Yaw, 0) {
		return invalid(s.ID, "non-finite frame")
	}
	switch s.Kind {
	case Triangle:
		return s.validateAbove(s.RidgeLeft, "apex")
	case Trapezoid:
		if err := s.validateAbove(s.RidgeLeft, "left ridge point"); err != nil {
			return err
		}
		return s.validateAbove(s.RidgeRight, "right ridge point")
	case AxisAlignedRect:
		if len(s.Cap) < 3 {
			return invalid(s.ID, "cap has %d vertices", len(s.Cap))
		}
		for _, v := range s.Cap {
			if !finite(v) {
				return invalid(s.ID, "non-finite cap vertex")
			}
			if math.Abs(v.Z-s.Cap[0].Z) > 1e-6 {
				return invalid(s.ID, "cap is not horizontal")
			}
		}
		top := s.Top()
		if !(top.MaxX-top.MinX > geom.Epsilon) || !(top.MaxY-top.MinY > geom.Epsilon) {
			return invalid(s.ID, "cap has no area")
		}
		return nil
	}
	return invalid(s.ID, "unknown kind %v", s.Kind)
}

func (s Segment) validateAbove(p r3.Vec, what string) error {
	for _, v := range []r3.Vec{s.BaseLeft, s.BaseRight, p} {
		if !finite(v) {
			return invalid(s.ID, "non-finite vertex")
		}
	}
	if d := geom.PointToLineDistance3D(s.BaseLeft, s.BaseRight, p); math.IsInf(d, 1) || d < geom.Epsilon {
		return invalid(s.ID, "%s lies on the base edge", what)
	}
	return nil
}

func (s Segment) Polygon() []r3.Vec {
	var local []r3.Vec
	switch s.Kind {
	case Triangle:
		local = []r3.Vec{s.BaseLeft, s.BaseRight, s.RidgeLeft}
	case Trapezoid:
		local = []r3.Vec{s.BaseLeft, s.BaseRight, s.RidgeRight, s.RidgeLeft}
	default:
		local = s.Cap
	}
	poly := make([]r3.Vec, len(local))
	for i, v := range local {
		poly[i] = s.Frame.ToWorld(v)
	}
	return poly
}

// AxisAlignedTop is the world-aligned bounding rectangle of a cap.
type AxisAlignedTop struct {
	MinX, MinY, MaxX, MaxY float64
	Z                      float64
}

// Top returns the world bounding rectangle of an AxisAlignedRect
// segment.
func (s Segment) Top() AxisAlignedTop {
	if len(s.Cap) == 0 {
		return AxisAlignedTop{}
	}
	t := AxisAlignedTop{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, v := range s.Cap {
		p := geom.RotateZ(v, s.Frame.Yaw)
		t.MinX = math.Min(t.MinX, p.X)
		t.MinY = math.Min(t.MinY, p.Y)
		t.MaxX = math.Max(t.MaxX, p.X)
		t.MaxY = math.Max(t.MaxY, p.Y)
	}
	t.MinX += s.Frame.Center.X
	t.MaxX += s.Frame.Center.X
	t.MinY += s.Frame.Center.Y
	t.MaxY += s.Frame.Center.Y
	t.Z = s.Cap[0].Z + s.Frame.Center.Z
	return t
}

func finite(v r3.Vec) bool {
	for _, c := range [...]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
