// Package geom holds the planar and spatial helpers shared by the grid
// builders and the building orchestrators.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the distance below which a point is considered to lie on
// a polygon edge.
const Epsilon = 1e-9

// PointInPolygon reports whether p is inside poly using the even-odd
// rule. Points on an edge count as inside.
func PointInPolygon(p r2.Vec, poly []r2.Vec) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := poly[i], poly[j]
		if distanceToSegment(p, vj, vi) <= Epsilon {
			return true
		}
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

func distanceToSegment(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Dot(ab, ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
}

// SignedArea returns the shoelace area of poly, positive for
// counter-clockwise winding.
func SignedArea(poly []r2.Vec) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		area += r2.Cross(poly[i], poly[(i+1)%n])
	}
	return area / 2
}

// EnsureCCW returns poly in counter-clockwise order, and whether it had
// to be reversed. poly is not modified.
func EnsureCCW(poly []r2.Vec) ([]r2.Vec, bool) {
	if SignedArea(poly) >= 0 {
		return poly, false
	}
	rev := make([]r2.Vec, len(poly))
	for i, v := range poly {
		rev[len(poly)-1-i] = v
	}
	return rev, true
}

// Centroid returns the area centroid of poly. Degenerate polygons fall
// back to the vertex average.
func Centroid(poly []r2.Vec) r2.Vec {
	n := len(poly)
	if n == 0 {
		return r2.Vec{}
	}
	a := SignedArea(poly)
	if n < 3 || math.Abs(a) < 1e-12 {
		var sum r2.Vec
		for _, v := range poly {
			sum = r2.Add(sum, v)
		}
		return r2.Scale(1/float64(n), sum)
	}
	var c r2.Vec
	for i := 0; i < n; i++ {
		p, q := poly[i], poly[(i+1)%n]
		c = r2.Add(c, r2.Scale(r2.Cross(p, q), r2.Add(p, q)))
	}
	return r2.Scale(1/(6*a), c)
}

// OffsetPolygon moves every edge of the counter-clockwise polygon poly
// inward by d (outward when d is negative) and returns the new corners.
// Each corner is the intersection of the two shifted edges that meet
// there; at straight joints this falls back to the shifted vertex.
func OffsetPolygon(poly []r2.Vec, d float64) []r2.Vec {
	n := len(poly)
	if n < 3 || d == 0 {
		return append([]r2.Vec(nil), poly...)
	}
	type line struct{ a, b r2.Vec }
	shifted := make([]line, n)
	for i := range poly {
		p, q := poly[i], poly[(i+1)%n]
		dir := r2.Sub(q, p)
		var left r2.Vec
		if l := r2.Norm(dir); l > 0 {
			left = r2.Vec{X: -dir.Y / l, Y: dir.X / l}
		}
		off := r2.Scale(d, left)
		shifted[i] = line{r2.Add(p, off), r2.Add(q, off)}
	}
	out := make([]r2.Vec, n)
	for i := range poly {
		prev := shifted[(i+n-1)%n]
		cur := shifted[i]
		out[i] = LineIntersection2D(prev.a, prev.b, cur.a, cur.b)
	}
	return out
}
