package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecNear(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) <= Epsilon
}

func TestRotate_QuarterTurnAboutZ(t *testing.T) {
	got := Rotate(UnitX, UnitZ, math.Pi/2)
	if !vecNear(got, UnitY) {
		t.Errorf("expected %v, got %v", UnitY, got)
	}
}

func TestOrthogonalComplement(t *testing.T) {
	for _, v := range []r3.Vec{UnitX, UnitZ, {X: 1, Y: 2, Z: 3}, {X: -0.3, Y: 0, Z: 5}} {
		c := OrthogonalComplement(v)
		n := r3.Unit(v)
		for i, u := range c {
			if math.Abs(r3.Norm(u)-1) > Epsilon {
				t.Errorf("v=%v: basis[%d] not unit: %v", v, i, u)
			}
			if math.Abs(r3.Dot(u, n)) > Epsilon {
				t.Errorf("v=%v: basis[%d] not orthogonal to v", v, i)
			}
		}
		if math.Abs(r3.Dot(c[0], c[1])) > Epsilon {
			t.Errorf("v=%v: complement vectors not orthogonal", v)
		}
	}
}

func TestPlane_RoundTrip(t *testing.T) {
	plane := NewPlane(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 1, Y: 1, Z: 0})
	for _, q := range []r2.Vec{{}, {X: 1}, {Y: -2}, {X: 3.5, Y: 0.25}} {
		w := plane.ToWorld(q)
		if !plane.ContainsPoint(w) {
			t.Errorf("%v mapped off the plane: %v", q, w)
		}
		back := plane.ToPlane(w)
		if r2.Norm(r2.Sub(back, q)) > Epsilon {
			t.Errorf("round trip of %v gave %v", q, back)
		}
	}
}

func TestPlane_Project(t *testing.T) {
	plane := NewPlane(r3.Vec{}, UnitZ)
	got := plane.Project(r3.Vec{X: 1, Y: 2, Z: 7})
	if !vecNear(got, r3.Vec{X: 1, Y: 2}) {
		t.Errorf("unexpected projection %v", got)
	}
	if d := plane.SignedDistance(r3.Vec{Z: -4}); d != -4 {
		t.Errorf("expected signed distance -4, got %v", d)
	}
}

func TestPlane_IntersectSphere(t *testing.T) {
	plane := NewPlane(r3.Vec{X: 1}, UnitX)

	c, ok := plane.IntersectSphere(Sphere{Center: r3.Vec{}, Radius: 3})
	if !ok {
		t.Fatal("expected an intersection")
	}
	if math.Abs(c.Radius-math.Sqrt(8)) > Epsilon {
		t.Errorf("expected radius sqrt(8), got %v", c.Radius)
	}
	if r2.Norm(c.Center) > Epsilon {
		t.Errorf("expected centre at plane origin, got %v", c.Center)
	}

	if _, ok := plane.IntersectSphere(Sphere{Center: r3.Vec{X: 5}, Radius: 1}); ok {
		t.Error("expected no intersection for a distant sphere")
	}
}

func TestPlane_IntersectLine(t *testing.T) {
	plane := NewPlane(r3.Vec{Z: 2}, UnitZ)
	p, ok := plane.IntersectLine(Line{Point: r3.Vec{X: 1}, Dir: r3.Vec{X: 1, Z: 1}})
	if !ok || !vecNear(p, r3.Vec{X: 3, Z: 2}) {
		t.Errorf("expected (3,0,2), got %v ok=%v", p, ok)
	}
	if _, ok := plane.IntersectLine(Line{Dir: UnitX}); ok {
		t.Error("parallel line must not intersect")
	}
}

func TestSphere_IntersectLine(t *testing.T) {
	s := Sphere{Center: r3.Vec{}, Radius: 2}
	pts := s.IntersectLine(Line{Point: r3.Vec{X: -5}, Dir: UnitX})
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if !vecNear(pts[0], r3.Vec{X: 2}) || !vecNear(pts[1], r3.Vec{X: -2}) {
		t.Errorf("unexpected points %v", pts)
	}
	if got := s.IntersectLine(Line{Point: r3.Vec{Y: 3}, Dir: UnitX}); len(got) != 0 {
		t.Errorf("expected a miss, got %v", got)
	}
}

func TestDisk_ContainsPoint(t *testing.T) {
	d := Disk{Center: r3.Vec{}, Normal: UnitX, Radius: 1}
	if !d.ContainsPoint(r3.Vec{Y: 0.5}) {
		t.Error("point on the disk should be contained")
	}
	if d.ContainsPoint(r3.Vec{X: 0.1, Y: 0.5}) {
		t.Error("point off the plane should not be contained")
	}
	if d.ContainsPoint(r3.Vec{Y: 2}) {
		t.Error("point outside the rim should not be contained")
	}
}

func TestSegment_IntersectDisk(t *testing.T) {
	d := Disk{Center: r3.Vec{}, Normal: UnitX, Radius: 1}
	if _, ok := (Segment{P1: r3.Vec{X: -1}, P2: r3.Vec{X: 1}}).IntersectDisk(d); !ok {
		t.Error("segment through the centre should hit the disk")
	}
	if _, ok := (Segment{P1: r3.Vec{X: 0.5}, P2: r3.Vec{X: 1}}).IntersectDisk(d); ok {
		t.Error("segment ending before the plane should miss")
	}
	if _, ok := (Segment{P1: r3.Vec{X: -1, Y: 3}, P2: r3.Vec{X: 1, Y: 3}}).IntersectDisk(d); ok {
		t.Error("segment outside the rim should miss")
	}
}

func TestDisk_Rotated(t *testing.T) {
	d := Disk{Center: r3.Vec{X: 1}, Normal: UnitX, Radius: 2}
	r := d.Rotated(math.Pi/6, 0)
	if math.Abs(r3.Norm(r.Normal)-1) > Epsilon {
		t.Errorf("rotated normal not unit: %v", r.Normal)
	}
	if got := math.Acos(r3.Dot(r.Normal, d.Normal)); math.Abs(got-math.Pi/6) > 1e-9 {
		t.Errorf("expected tilt of pi/6, got %v", got)
	}
	if r.Center != d.Center || r.Radius != d.Radius {
		t.Error("rotation must keep centre and radius")
	}
}

func TestDisksDistances(t *testing.T) {
	d1 := Disk{Center: r3.Vec{}, Normal: UnitX, Radius: 1}
	d2 := Disk{Center: r3.Vec{X: 2}, Normal: UnitX, Radius: 1}
	l1, l2 := DisksDistances(d1, d2)
	if math.Abs(l1-2) > Epsilon || math.Abs(l2-2) > Epsilon {
		t.Errorf("expected (2, 2), got (%v, %v)", l1, l2)
	}

	l1, l2 = DisksDistances(d2, d1)
	if l1 > 0 || l2 > 0 {
		t.Errorf("disk behind should give negative distances, got (%v, %v)", l1, l2)
	}
}

func TestDiskVertices_Tilted(t *testing.T) {
	d1 := Disk{Center: r3.Vec{}, Normal: UnitX, Radius: 1}
	d2 := Disk{Center: r3.Vec{X: 1}, Normal: r3.Unit(r3.Vec{X: 1, Y: 1}), Radius: 2}
	a1, a2, b1, b2, n := DiskVertices(d1, d2)

	if math.Abs(r3.Norm(n)-1) > Epsilon || math.Abs(r3.Dot(n, d1.Normal)) > Epsilon || math.Abs(r3.Dot(n, d2.Normal)) > Epsilon {
		t.Fatalf("plane normal %v must be a unit vector orthogonal to both disks", n)
	}
	for _, v := range []struct {
		p r3.Vec
		d Disk
	}{{a1, d1}, {a2, d1}, {b1, d2}, {b2, d2}} {
		if got := r3.Norm(r3.Sub(v.p, v.d.Center)); math.Abs(got-v.d.Radius) > Epsilon {
			t.Errorf("vertex %v is %v from the centre, want %v", v.p, got, v.d.Radius)
		}
		if math.Abs(r3.Dot(n, v.p)) > Epsilon {
			t.Errorf("vertex %v is off the common plane", v.p)
		}
	}
	matched := r3.Norm(r3.Sub(a1, b1)) + r3.Norm(r3.Sub(a2, b2))
	swapped := r3.Norm(r3.Sub(a2, b1)) + r3.Norm(r3.Sub(a1, b2))
	if matched > swapped+Epsilon {
		t.Errorf("vertices are not matched by the shortest total: %v > %v", matched, swapped)
	}
}

func TestCircle_Relations(t *testing.T) {
	big := Circle{Center: r2.Vec{}, Radius: 3}
	small := Circle{Center: r2.Vec{X: 1}, Radius: 1}
	far := Circle{Center: r2.Vec{X: 10}, Radius: 1}

	if !big.ContainsCircle(small) || small.ContainsCircle(big) {
		t.Error("containment is wrong")
	}
	if !big.Intersects(small) || big.Intersects(far) {
		t.Error("intersection is wrong")
	}
	if got := CircleFromBall(small.Ball()); got != small {
		t.Errorf("ball round trip changed the circle: %v", got)
	}
}
