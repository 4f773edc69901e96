package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// PointToLineDistance3D returns the distance from p3 to the infinite
// line through p1 and p2.
//
// A distance that comes out as exactly 0, including the case where p1
// and p2 coincide, is reported as +Inf. Callers use the distance to
// decide whether two surfaces touch, and a degenerate edge must never
// look like a touching one.
func PointToLineDistance3D(p1, p2, p3 r3.Vec) float64 {
	l := r3.Norm(r3.Sub(p2, p1))
	if l == 0 {
		return math.Inf(1)
	}
	d := r3.Norm(r3.Cross(r3.Sub(p2, p1), r3.Sub(p3, p1))) / l
	if d == 0 {
		return math.Inf(1)
	}
	return d
}

// LineIntersection2D returns the intersection of the line through p1
// and p2 with the line through p3 and p4.
//
// If the lines are parallel or nearly so (including two vertical lines
// and zero-length inputs), it returns p2. The ridge and overhang offset
// code relies on this: consecutive edges of a straight wall joint are
// parallel, and their offset corner is exactly p2.
func LineIntersection2D(p1, p2, p3, p4 r2.Vec) r2.Vec {
	d1 := r2.Sub(p2, p1)
	d2 := r2.Sub(p4, p3)
	scale := r2.Norm(d1) * r2.Norm(d2)
	if scale == 0 {
		return p2
	}

	// Solve p1 + t*d1 = p3 + s*d2 for (t, s).
	a := mat.NewDense(2, 2, []float64{
		d1.X, -d2.X,
		d1.Y, -d2.Y,
	})
	if math.Abs(mat.Det(a)) <= parallelTolerance*scale {
		return p2
	}
	b := mat.NewVecDense(2, []float64{p3.X - p1.X, p3.Y - p1.Y})
	var ts mat.VecDense
	if err := ts.SolveVec(a, b); err != nil {
		return p2
	}
	p := r2.Add(p1, r2.Scale(ts.AtVec(0), d1))
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return p2
	}
	return p
}

// parallelTolerance is the largest |sin θ| between two lines that is
// still treated as parallel.
const parallelTolerance = 1e-9
