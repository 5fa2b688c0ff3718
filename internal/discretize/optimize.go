package discretize

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/geometry"
	"github.com/banshee-data/minball/internal/monitoring"
	"github.com/banshee-data/minball/internal/tunnel"
)

const (
	// behindPenalty is charged for every rim vertex behind its neighbour.
	behindPenalty = 100
	// maxRotation bounds the random tilt tried for a disk each round.
	maxRotation = math.Pi / 6
)

// Optimize relaxes a disk sequence by lowering the energy between
// neighbours. Each round visits the interior disks in order and keeps the
// cheapest of: the disk itself, the minimal disk in its plane, refits tilted
// towards either neighbour and a random rotation that the centre curve still
// passes through. A candidate that moves further than Delta from a
// neighbour, unless the disk already was, is rejected. The end disks are
// fixed. The input slice is not modified.
func Optimize(t *tunnel.Tunnel, disks []geometry.Disk, rounds int, opts Options) []geometry.Disk {
	out := append([]geometry.Disk(nil), disks...)
	if len(out) < 3 || rounds < 1 {
		return out
	}
	o := &optimizer{t: t, delta: opts.Delta, rng: rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x2545f4914f6cdd1d))}

	before := totalEnergy(out)
	for round := 0; round < rounds; round++ {
		for i := 1; i < len(out)-1; i++ {
			out[i] = o.relax(out[i-1], out[i], out[i+1])
		}
	}
	monitoring.Logf("[optimize] %d disks, %d rounds, energy %.4f -> %.4f", len(out), rounds, before, totalEnergy(out))
	return out
}

type optimizer struct {
	t     *tunnel.Tunnel
	delta float64
	rng   *rand.Rand
}

func (o *optimizer) relax(left, middle, right geometry.Disk) geometry.Disk {
	candidates := []geometry.Disk{
		o.tiltTowards(middle, left),
		o.tiltTowards(middle, right),
		o.rotate(middle),
	}
	if d, err := o.t.MinimalDisk(middle.Center, middle.Normal); err == nil {
		candidates = append(candidates, d)
	}

	limit := math.Max(o.delta, math.Max(Distance(left, middle), Distance(middle, right)))
	best, bestEnergy := middle, evaluateEnergy(left, middle, right)
	for _, c := range candidates {
		if Distance(left, c) > limit || Distance(c, right) > limit {
			continue
		}
		if e := evaluateEnergy(left, c, right); e < bestEnergy {
			best, bestEnergy = c, e
		}
	}
	return best
}

// tiltTowards refits source at its centre with a normal blended at random
// towards the normal of target.
func (o *optimizer) tiltTowards(source, target geometry.Disk) geometry.Disk {
	if r3.Norm(r3.Sub(source.Normal, target.Normal)) == 0 {
		return source
	}
	alpha := o.rng.Float64()
	normal := r3.Add(r3.Scale(alpha, source.Normal), r3.Scale(1-alpha, target.Normal))
	if r3.Norm(normal) < geometry.Epsilon {
		return source
	}
	if d, err := o.t.MinimalDisk(source.Center, r3.Unit(normal)); err == nil {
		return d
	}
	return source
}

func (o *optimizer) rotate(middle geometry.Disk) geometry.Disk {
	rotated := middle.Rotated(o.rng.Float64()*maxRotation, o.rng.Float64()*2*math.Pi)
	d, err := o.t.MinimalDisk(rotated.Center, rotated.Normal)
	if err != nil || !o.t.Curve.PassesThroughDisk(d) {
		return middle
	}
	return d
}

func evaluateEnergy(left, middle, right geometry.Disk) float64 {
	return evalDistanceEnergy(geometry.DisksDistances(left, middle)) +
		evalDistanceEnergy(geometry.DisksDistances(middle, right))
}

// evalDistanceEnergy is the squared length of both rim vertex links, with a
// penalty for each link that points backwards.
func evalDistanceEnergy(l1, l2 float64) float64 {
	e := l1*l1 + l2*l2
	if l1 < 0 {
		e += behindPenalty
	}
	if l2 < 0 {
		e += behindPenalty
	}
	return e
}

// totalEnergy sums the link energy over consecutive pairs.
func totalEnergy(disks []geometry.Disk) float64 {
	e := 0.0
	for i := 1; i < len(disks); i++ {
		e += evalDistanceEnergy(geometry.DisksDistances(disks[i-1], disks[i]))
	}
	return e
}
