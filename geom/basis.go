package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the world vertical.
var Up = r3.Vec{Z: 1}

// Unit returns v scaled to unit length, or the zero vector if v is
// zero. Unlike r3.Unit it never produces NaN.
func Unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// RotateZ rotates v about the world vertical by yaw radians.
func RotateZ(v r3.Vec, yaw float64) r3.Vec {
	s, c := math.Sincos(yaw)
	return r3.Vec{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c, Z: v.Z}
}

// Flat drops the Z coordinate.
func Flat(v r3.Vec) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// A Basis is the local frame of a planar segment spanned by a base
// edge s0→s1 and a third point s2 (an apex or a ridge end).
type Basis struct {
	// Normal is unit(cross(s2-s0, s2-s1)). For a base edge running
	// counter-clockwise around a roof outline this points up and out.
	Normal r3.Vec

	// Along is the unit vector from s0 toward s1.
	Along r3.Vec

	// Across is the unit in-plane vector perpendicular to Along,
	// pointing from the base edge toward s2.
	Across r3.Vec

	// Length is |s1-s0|.
	Length float64

	// Height is the distance of s2 from the line through s0 and s1.
	Height float64

	// Apex is the projection of s2-s0 onto Along.
	Apex float64
}

// NewBasis derives the segment basis for s0, s1, s2. Degenerate input
// produces zero vectors and zero extents rather than NaN.
func NewBasis(s0, s1, s2 r3.Vec) Basis {
	v10 := r3.Sub(s1, s0)
	v20 := r3.Sub(s2, s0)
	v21 := r3.Sub(s2, s1)
	var b Basis
	b.Length = r3.Norm(v10)
	cross := r3.Cross(v20, v21)
	if b.Length > 0 {
		b.Height = r3.Norm(cross) / b.Length
	}
	b.Normal = Unit(cross)
	b.Along = Unit(v10)
	b.Across = Unit(r3.Cross(b.Normal, v10))
	b.Apex = r3.Dot(v20, b.Along)
	return b
}
