package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the absolute slack used by containment and coplanarity tests.
const Epsilon = 1e-6

var (
	UnitX = r3.Vec{X: 1}
	UnitY = r3.Vec{Y: 1}
	UnitZ = r3.Vec{Z: 1}
)

// IsParallel reports whether u and v point the same way. Opposite vectors
// are not parallel in this sense.
func IsParallel(u, v r3.Vec) bool {
	return r3.Norm(r3.Sub(r3.Unit(u), r3.Unit(v))) < Epsilon
}

// AnyNormal returns a unit vector orthogonal to v.
func AnyNormal(v r3.Vec) r3.Vec {
	n := r3.Cross(v, UnitZ)
	if r3.Norm(n) < Epsilon*r3.Norm(v) || r3.Norm(n) == 0 {
		return UnitX
	}
	return r3.Unit(n)
}

// OrthogonalComplement returns two unit vectors spanning the plane
// orthogonal to v. Together with unit v they form a right-handed basis.
func OrthogonalComplement(v r3.Vec) [2]r3.Vec {
	u := AnyNormal(v)
	w := r3.Unit(r3.Cross(v, u))
	return [2]r3.Vec{u, w}
}

// OrthonormalBasis returns unit v followed by its orthogonal complement.
func OrthonormalBasis(v r3.Vec) [3]r3.Vec {
	c := OrthogonalComplement(v)
	return [3]r3.Vec{r3.Unit(v), c[0], c[1]}
}

// RotationMatrix returns the matrix rotating counterclockwise by theta
// radians about axis.
func RotationMatrix(axis r3.Vec, theta float64) *mat.Dense {
	a := math.Cos(theta / 2)
	v := r3.Scale(-math.Sin(theta/2), r3.Unit(axis))
	b, c, d := v.X, v.Y, v.Z
	aa, bb, cc, dd := a*a, b*b, c*c, d*d
	bc, ad, ac, ab, bd, cd := b*c, a*d, a*c, a*b, b*d, c*d
	return mat.NewDense(3, 3, []float64{
		aa + bb - cc - dd, 2 * (bc + ad), 2 * (bd - ac),
		2 * (bc - ad), aa + cc - bb - dd, 2 * (cd + ab),
		2 * (bd + ac), 2 * (cd - ab), aa + dd - bb - cc,
	})
}

// Rotate applies RotationMatrix(axis, theta) to p.
func Rotate(p, axis r3.Vec, theta float64) r3.Vec {
	var out mat.VecDense
	out.MulVec(RotationMatrix(axis, theta), mat.NewVecDense(3, []float64{p.X, p.Y, p.Z}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Sgn returns -1 for negative a and +1 otherwise.
func Sgn(a float64) int {
	if a < 0 {
		return -1
	}
	return 1
}
