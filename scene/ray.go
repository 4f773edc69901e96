package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec // Must be normalized
}

// hits reports whether r hits any of tris.
func (r *Ray) hits(tris []r3.Triangle) bool {
	for i := range tris {
		if _, ok := r.IntersectTriangle(&tris[i]); ok {
			return true
		}
	}
	return false
}

func (r *Ray) IntersectTriangle(tri *r3.Triangle) (t float64, ok bool) {
	// Möller–Trumbore intersection, based on Wikipedia implementation
	// and the Scratchapixel implementation.
	const epsilon = 0.0000001
	edge1 := r3.Sub(tri[1], tri[0])
	edge2 := r3.Sub(tri[2], tri[0])
	h := r3.Cross(r.Dir, edge2)
	det := r3.Dot(edge1, h)
	// If the determinant is close to 0, the ray is parallel to the plane
	// of the triangle. Both faces occlude, so the sign doesn't matter.
	if det > -epsilon && det < epsilon {
		return 0, false
	}
	invDet := 1 / det
	s := r3.Sub(r.Origin, tri[0])
	u := invDet * r3.Dot(s, h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := r3.Cross(s, edge1)
	v := invDet * r3.Dot(r.Dir, q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	// t is the distance on the ray to the intersection point.
	t = invDet * r3.Dot(edge2, q)
	if t < epsilon {
		// There is a line intersection but not a ray intersection.
		return 0, false
	}
	return t, true
}

// Along returns the point at distance t along r.
func (r *Ray) Along(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// A box is an axis-aligned bounding box.
type box struct {
	min, max r3.Vec
}

func emptyBox() box {
	inf := math.Inf(1)
	return box{r3.Vec{X: inf, Y: inf, Z: inf}, r3.Vec{X: -inf, Y: -inf, Z: -inf}}
}

func (b *box) extend(p r3.Vec) {
	b.min = r3.Vec{X: math.Min(b.min.X, p.X), Y: math.Min(b.min.Y, p.Y), Z: math.Min(b.min.Z, p.Z)}
	b.max = r3.Vec{X: math.Max(b.max.X, p.X), Y: math.Max(b.max.Y, p.Y), Z: math.Max(b.max.Z, p.Z)}
}

// hitBy is the slab test: it reports whether r passes through b at some
// t >= 0.
func (b *box) hitBy(r *Ray) bool {
	tmin, tmax := 0.0, math.Inf(1)
	for _, ax := range [...][4]float64{
		{r.Origin.X, r.Dir.X, b.min.X, b.max.X},
		{r.Origin.Y, r.Dir.Y, b.min.Y, b.max.Y},
		{r.Origin.Z, r.Dir.Z, b.min.Z, b.max.Z},
	} {
		o, d, lo, hi := ax[0], ax[1], ax[2], ax[3]
		if d == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}
