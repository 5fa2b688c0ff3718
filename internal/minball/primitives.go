package minball

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// collinearEpsilon is the relative determinant below which three centres
// are treated as collinear and no three-ball tangent solution is attempted.
const collinearEpsilon = 1e-12

// tangent2 returns the smallest ball with a and b both inside and both
// touching its boundary. ok is false when one ball contains the other: no
// such ball exists and the larger ball on its own is the answer.
func tangent2(a, b Ball2D) (Ball2D, bool) {
	ca, cb := a.Vec(), b.Vec()
	d := r2.Norm(r2.Sub(cb, ca))
	if d <= math.Abs(a.Radius-b.Radius) {
		return Ball2D{}, false
	}
	radius := (d + a.Radius + b.Radius) / 2
	center := r2.Add(ca, r2.Scale((radius-a.Radius)/d, r2.Sub(cb, ca)))
	return fromVec(center, radius), true
}

// tangent3 returns the balls internally tangent to a, b and c: the outer
// solutions of the Apollonius problem. There are at most two.
//
// With a moved to the origin and rho = R - r_a, tangency to b and c is
//
//	p_i . v = (|p_i|^2 - s_i^2)/2 + s_i*rho,   s_i = r_i - r_a
//
// which is linear in the centre v for fixed rho. Solving the 2x2 system
// gives v = v0 + v1*rho, and tangency to a (|v| = rho) leaves a quadratic
// in rho. Roots with rho below any s_i would put a ball outside and are
// dropped.
func tangent3(a, b, c Ball2D, tol float64) []Ball2D {
	ca := a.Vec()
	p2, p3 := r2.Sub(b.Vec(), ca), r2.Sub(c.Vec(), ca)
	s2, s3 := b.Radius-a.Radius, c.Radius-a.Radius

	det := p2.X*p3.Y - p2.Y*p3.X
	if math.Abs(det) <= collinearEpsilon*r2.Norm(p2)*r2.Norm(p3) || det == 0 {
		return nil
	}

	e2, e3 := (r2.Norm2(p2)-s2*s2)/2, (r2.Norm2(p3)-s3*s3)/2
	solve := func(y2, y3 float64) r2.Vec {
		return r2.Vec{
			X: (p3.Y*y2 - p2.Y*y3) / det,
			Y: (p2.X*y3 - p3.X*y2) / det,
		}
	}
	v0 := solve(e2, e3)
	v1 := solve(s2, s3)

	qa := r2.Norm2(v1) - 1
	qb := 2 * r2.Dot(v0, v1)
	qc := r2.Norm2(v0)

	var roots []float64
	switch {
	case math.Abs(qa) <= collinearEpsilon:
		if qb != 0 {
			roots = append(roots, -qc/qb)
		}
	default:
		disc := qb*qb - 4*qa*qc
		if disc < 0 {
			if disc < -collinearEpsilon*qb*qb {
				return nil
			}
			disc = 0
		}
		q := -0.5 * (qb + math.Copysign(math.Sqrt(disc), qb))
		roots = append(roots, q/qa)
		if q != 0 {
			roots = append(roots, qc/q)
		}
	}

	minRho := math.Max(0, math.Max(s2, s3)) - tol
	out := make([]Ball2D, 0, len(roots))
	for _, rho := range roots {
		if math.IsNaN(rho) || math.IsInf(rho, 0) || rho < minRho {
			continue
		}
		center := r2.Add(ca, r2.Add(v0, r2.Scale(rho, v1)))
		out = append(out, fromVec(center, rho+a.Radius))
	}
	return out
}

// tangentBalls returns every ball internally tangent to all members of
// support. A single ball is tangent to itself.
func tangentBalls(support []Ball2D, tol float64) []Ball2D {
	switch len(support) {
	case 1:
		return []Ball2D{support[0]}
	case 2:
		if b, ok := tangent2(support[0], support[1]); ok {
			return []Ball2D{b}
		}
		return nil
	case 3:
		return tangent3(support[0], support[1], support[2], tol)
	}
	return nil
}
