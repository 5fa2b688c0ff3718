package tunnel

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/geometry"
	"github.com/banshee-data/minball/internal/minball"
)

// ErrNoCut is returned when the plane cut at a point contains no circle
// around that point, i.e. the point lies outside the tunnel.
var ErrNoCut = errors.New("tunnel: no cross-section at point")

const (
	// optimizeMaxRounds bounds OptimizedDisk when the radius keeps
	// shrinking by more than optimizeConvergence per round.
	optimizeMaxRounds   = 50
	optimizeConvergence = 0.1
	optimizeMaxTilt     = math.Pi / 3
)

// Tunnel is a chain of spheres and the curve through their centres.
type Tunnel struct {
	Spheres []geometry.Sphere
	Curve   Curve

	// Solver computes minimal disks. Nil selects minball.Compute.
	Solver minball.Solver
}

// New returns a tunnel over spheres, in order.
func New(spheres []geometry.Sphere) *Tunnel {
	centers := make([]r3.Vec, len(spheres))
	for i, s := range spheres {
		centers[i] = s.Center
	}
	return &Tunnel{Spheres: spheres, Curve: Curve{Centers: centers}}
}

func (t *Tunnel) solve(balls []minball.Ball2D) (minball.Ball2D, error) {
	if t.Solver == nil {
		return minball.Compute(balls)
	}
	return t.Solver.Solve(balls)
}

// Cuts returns the circles cut from the tunnel by plane that are connected,
// through overlaps, to a circle containing point. The result is empty when
// no circle contains the projection of point.
func (t *Tunnel) Cuts(plane geometry.Plane, point r3.Vec) []geometry.Circle {
	var all []geometry.Circle
	for _, s := range t.Spheres {
		if c, ok := plane.IntersectSphere(s); ok {
			all = append(all, c)
		}
	}

	p := plane.ToPlane(point)
	start := -1
	for i, c := range all {
		if c.ContainsPoint(p) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}

	var cuts []geometry.Circle
	added := make([]bool, len(all))
	added[start] = true
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cuts = append(cuts, all[i])
		for j, c := range all {
			if !added[j] && all[i].Intersects(c) {
				added[j] = true
				stack = append(stack, j)
			}
		}
	}
	return cuts
}

// MinimalDisk returns the smallest disk in the plane through point with the
// given normal that covers the tunnel cross-section there.
func (t *Tunnel) MinimalDisk(point, normal r3.Vec) (geometry.Disk, error) {
	plane := geometry.NewPlane(point, normal)
	cuts := t.Cuts(plane, point)
	if len(cuts) == 0 {
		return geometry.Disk{}, ErrNoCut
	}

	balls := make([]minball.Ball2D, len(cuts))
	for i, c := range cuts {
		balls[i] = c.Ball()
	}
	mb, err := t.solve(balls)
	if err != nil {
		return geometry.Disk{}, fmt.Errorf("minimal disk at %v: %w", point, err)
	}
	return geometry.Disk{
		Center: plane.ToWorld(mb.Vec()),
		Normal: plane.Normal,
		Radius: mb.Radius,
	}, nil
}

// IsEnclosingDisk reports whether disk covers every circle of the tunnel
// cross-section in its plane.
func (t *Tunnel) IsEnclosingDisk(disk geometry.Disk) bool {
	plane := disk.Plane()
	rim := geometry.Circle{Center: plane.ToPlane(disk.Center), Radius: disk.Radius}

	cuts := t.Cuts(plane, disk.Center)
	if len(cuts) == 0 {
		return false
	}
	for _, c := range cuts {
		if !rim.ContainsCircle(c) {
			return false
		}
	}
	return true
}

// OptimizedDisk searches for a smaller minimal disk around center by tilting
// the normal at random. A tilted disk is accepted only if it is smaller and
// the tunnel curve still passes through it. Rounds of iterations tilts repeat
// until a round improves the radius by less than 0.1.
func (t *Tunnel) OptimizedDisk(center, normal r3.Vec, rng *rand.Rand, iterations int) (geometry.Disk, error) {
	best, err := t.MinimalDisk(center, normal)
	if err != nil {
		return geometry.Disk{}, err
	}
	for round := 0; round < optimizeMaxRounds; round++ {
		prev := best.Radius
		for i := 0; i < iterations; i++ {
			phi := rng.Float64() * 2 * math.Pi
			theta := rng.Float64() * optimizeMaxTilt
			rotated := best.Rotated(theta, phi)
			cand, err := t.MinimalDisk(rotated.Center, rotated.Normal)
			if err != nil {
				continue
			}
			if cand.Radius < best.Radius && t.Curve.PassesThroughDisk(cand) {
				best = cand
			}
		}
		if math.Abs(prev-best.Radius) <= optimizeConvergence {
			break
		}
	}
	return best, nil
}
