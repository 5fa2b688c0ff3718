package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is an affine plane with an orthonormal in-plane basis. The basis
// defines the 2D parametrisation used by ToPlane and ToWorld, with Point
// at the origin.
type Plane struct {
	Point  r3.Vec
	Normal r3.Vec

	basis [2]r3.Vec
	// toLocal maps world offsets to (u, v, n) coordinates.
	toLocal *mat.Dense
}

// NewPlane returns the plane through point with the given normal. The
// normal is normalised.
func NewPlane(point, normal r3.Vec) Plane {
	n := r3.Unit(normal)
	basis := OrthogonalComplement(n)

	// Columns are the basis vectors; its inverse changes world offsets into
	// plane coordinates.
	cols := mat.NewDense(3, 3, []float64{
		basis[0].X, basis[1].X, n.X,
		basis[0].Y, basis[1].Y, n.Y,
		basis[0].Z, basis[1].Z, n.Z,
	})
	var inv mat.Dense
	if err := inv.Inverse(cols); err != nil {
		// an orthonormal basis is always invertible; fall back to the transpose
		inv.CloneFrom(cols.T())
	}
	return Plane{Point: point, Normal: n, basis: basis, toLocal: &inv}
}

// Basis returns the two in-plane unit vectors.
func (p Plane) Basis() (r3.Vec, r3.Vec) {
	return p.basis[0], p.basis[1]
}

// SignedDistance returns the distance of q from the plane, positive on the
// normal side.
func (p Plane) SignedDistance(q r3.Vec) float64 {
	return r3.Dot(p.Normal, r3.Sub(q, p.Point))
}

// ContainsPoint reports whether q lies on the plane within Epsilon.
func (p Plane) ContainsPoint(q r3.Vec) bool {
	return math.Abs(p.SignedDistance(q)) <= Epsilon
}

// Project returns the orthogonal projection of q onto the plane.
func (p Plane) Project(q r3.Vec) r3.Vec {
	return r3.Sub(q, r3.Scale(p.SignedDistance(q), p.Normal))
}

// ToPlane returns the 2D coordinates of the projection of q.
func (p Plane) ToPlane(q r3.Vec) r2.Vec {
	w := r3.Sub(q, p.Point)
	var local mat.VecDense
	local.MulVec(p.toLocal, mat.NewVecDense(3, []float64{w.X, w.Y, w.Z}))
	return r2.Vec{X: local.AtVec(0), Y: local.AtVec(1)}
}

// ToWorld maps 2D plane coordinates back to a 3D point on the plane.
func (p Plane) ToWorld(q r2.Vec) r3.Vec {
	return r3.Add(p.Point, r3.Add(r3.Scale(q.X, p.basis[0]), r3.Scale(q.Y, p.basis[1])))
}

// IntersectSphere returns the circle cut from s by the plane, in plane
// coordinates. ok is false when the plane misses the sphere.
func (p Plane) IntersectSphere(s Sphere) (Circle, bool) {
	d := math.Abs(p.SignedDistance(s.Center))
	if d > s.Radius {
		return Circle{}, false
	}
	return Circle{
		Center: p.ToPlane(s.Center),
		Radius: math.Sqrt(s.Radius*s.Radius - d*d),
	}, true
}

// IntersectLine returns the point where l crosses the plane. ok is false
// when l is parallel to the plane.
func (p Plane) IntersectLine(l Line) (r3.Vec, bool) {
	denom := r3.Dot(p.Normal, l.Dir)
	if math.Abs(denom) < Epsilon*math.Max(1, r3.Norm(l.Dir)) {
		return r3.Vec{}, false
	}
	t := r3.Dot(p.Normal, r3.Sub(p.Point, l.Point)) / denom
	return l.At(t), true
}
