package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/minball"
)

// Sphere is a ball in 3D.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

// ContainsPoint reports whether p lies in the closed ball.
func (s Sphere) ContainsPoint(p r3.Vec) bool {
	return r3.Norm(r3.Sub(p, s.Center)) <= s.Radius
}

// IntersectLine returns the points where l crosses the sphere surface: none,
// or two (equal when l is tangent).
// See https://en.wikipedia.org/wiki/Line%E2%80%93sphere_intersection
func (s Sphere) IntersectLine(l Line) []r3.Vec {
	dir := r3.Unit(l.Dir)
	v := r3.Sub(l.Point, s.Center)
	b := r3.Dot(dir, v)
	disc := b*b - r3.Norm2(v) + s.Radius*s.Radius
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []r3.Vec{
		r3.Add(l.Point, r3.Scale(-b+sq, dir)),
		r3.Add(l.Point, r3.Scale(-b-sq, dir)),
	}
}

// Line is the infinite line Point + t*Dir.
type Line struct {
	Point r3.Vec
	Dir   r3.Vec
}

// At returns the point at parameter t.
func (l Line) At(t float64) r3.Vec {
	return r3.Add(l.Point, r3.Scale(t, l.Dir))
}

// Segment is the closed segment between P1 and P2.
type Segment struct {
	P1, P2 r3.Vec
}

// IntersectDisk returns the point where s crosses d, if any.
func (s Segment) IntersectDisk(d Disk) (r3.Vec, bool) {
	plane := d.Plane()
	dir := r3.Sub(s.P2, s.P1)
	denom := r3.Dot(plane.Normal, dir)
	if math.Abs(denom) < Epsilon*math.Max(1, r3.Norm(dir)) {
		return r3.Vec{}, false
	}
	t := r3.Dot(plane.Normal, r3.Sub(plane.Point, s.P1)) / denom
	if t < -Epsilon || t > 1+Epsilon {
		return r3.Vec{}, false
	}
	p := r3.Add(s.P1, r3.Scale(t, dir))
	if !d.ContainsPoint(p) {
		return r3.Vec{}, false
	}
	return p, true
}

// Circle is a disk in a plane's 2D parametrisation.
type Circle struct {
	Center r2.Vec
	Radius float64
}

// CircleFromBall converts a solver ball into a Circle.
func CircleFromBall(b minball.Ball2D) Circle {
	return Circle{Center: b.Vec(), Radius: b.Radius}
}

// Ball returns c as solver input.
func (c Circle) Ball() minball.Ball2D {
	return minball.NewBall2D(c.Center.X, c.Center.Y, c.Radius)
}

// ContainsCircle reports whether other lies inside c, within Epsilon.
func (c Circle) ContainsCircle(other Circle) bool {
	d := r2.Norm(r2.Sub(c.Center, other.Center))
	return c.Radius+Epsilon >= d+other.Radius
}

// ContainsPoint reports whether p lies in the closed disk.
func (c Circle) ContainsPoint(p r2.Vec) bool {
	return r2.Norm(r2.Sub(c.Center, p)) <= c.Radius
}

// Intersects reports whether the two closed disks overlap.
func (c Circle) Intersects(other Circle) bool {
	return r2.Norm(r2.Sub(c.Center, other.Center)) <= c.Radius+other.Radius
}

// Disk is a flat disk in 3D: a centre, a unit normal and a radius.
type Disk struct {
	Center r3.Vec
	Normal r3.Vec
	Radius float64
}

// Plane returns the plane the disk lies in.
func (d Disk) Plane() Plane {
	return NewPlane(d.Center, d.Normal)
}

// ContainsPoint reports whether p lies on the disk, within Epsilon.
func (d Disk) ContainsPoint(p r3.Vec) bool {
	v := r3.Sub(p, d.Center)
	if math.Abs(r3.Dot(v, r3.Unit(d.Normal))) > Epsilon {
		return false
	}
	return r3.Norm(v) <= d.Radius+Epsilon
}

// InHalfSpace reports whether p lies on the side of the disk plane the
// normal points to (or on the plane).
func (d Disk) InHalfSpace(p r3.Vec) bool {
	return r3.Dot(d.Normal, r3.Sub(p, d.Center)) >= 0
}

// IntersectsLine reports whether l passes through the disk.
func (d Disk) IntersectsLine(l Line) bool {
	p, ok := d.Plane().IntersectLine(l)
	if !ok {
		return false
	}
	return d.ContainsPoint(p)
}

// Rotated tilts the disk normal by theta about the first and phi about the
// second vector of its orthogonal complement. Centre and radius are kept.
func (d Disk) Rotated(theta, phi float64) Disk {
	axis := OrthogonalComplement(d.Normal)
	n := Rotate(d.Normal, axis[0], theta)
	n = Rotate(n, axis[1], phi)
	return Disk{Center: d.Center, Normal: r3.Unit(n), Radius: d.Radius}
}

// LinearCombination returns a1*d1 + a2*d2 component-wise. The normal is
// not renormalised.
func LinearCombination(d1 Disk, a1 float64, d2 Disk, a2 float64) Disk {
	return Disk{
		Center: r3.Add(r3.Scale(a1, d1.Center), r3.Scale(a2, d2.Center)),
		Normal: r3.Add(r3.Scale(a1, d1.Normal), r3.Scale(a2, d2.Normal)),
		Radius: a1*d1.Radius + a2*d2.Radius,
	}
}

// DiskVertices returns the rim vertices of d1 and d2 cut by a common plane,
// matched so that a_i pairs with b_i, together with the plane normal. The
// plane contains both normals, or any normal of d1 when the normals are
// parallel.
func DiskVertices(d1, d2 Disk) (a1, a2, b1, b2, n r3.Vec) {
	if IsParallel(d1.Normal, d2.Normal) {
		n = AnyNormal(d1.Normal)
	} else {
		n = r3.Unit(r3.Cross(d1.Normal, d2.Normal))
	}
	// dir_i runs from a disk centre to the rim inside the common plane.
	dir1 := r3.Scale(d1.Radius, r3.Unit(r3.Cross(n, d1.Normal)))
	dir2 := r3.Scale(d2.Radius, r3.Unit(r3.Cross(n, d2.Normal)))

	a1, a2 = r3.Add(d1.Center, dir1), r3.Sub(d1.Center, dir1)
	b1, b2 = r3.Add(d2.Center, dir2), r3.Sub(d2.Center, dir2)

	dist := func(p, q r3.Vec) float64 { return r3.Norm(r3.Sub(p, q)) }
	if dist(a1, b1)+dist(a2, b2) > dist(a2, b1)+dist(a1, b2) {
		a1, a2 = a2, a1
	}
	return a1, a2, b1, b2, n
}

// DisksDistances returns the distances between the matching rim vertices of
// d1 and d2 (see DiskVertices). A distance is negative when the vertex of d2
// lies behind d1 with respect to its normal.
func DisksDistances(d1, d2 Disk) (float64, float64) {
	a1, a2, b1, b2, _ := DiskVertices(d1, d2)
	l1, l2 := r3.Norm(r3.Sub(a1, b1)), r3.Norm(r3.Sub(a2, b2))
	if !d1.InHalfSpace(b1) {
		l1 = -l1
	}
	if !d1.InHalfSpace(b2) {
		l2 = -l2
	}
	return l1, l2
}
