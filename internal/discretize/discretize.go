package discretize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/config"
	"github.com/banshee-data/minball/internal/geometry"
	"github.com/banshee-data/minball/internal/minball"
	"github.com/banshee-data/minball/internal/monitoring"
	"github.com/banshee-data/minball/internal/tunnel"
)

// ErrShortTunnel is returned for tunnels with fewer than two spheres.
var ErrShortTunnel = errors.New("discretize: tunnel needs at least two spheres")

// Options controls Discretize.
type Options struct {
	// Delta is the largest allowed distance between neighbouring disks.
	Delta float64
	// Eps is the smallest advance along the curve between two fits.
	Eps float64

	// Optimize enables random tilting of every disk towards a smaller one.
	Optimize           bool
	OptimizeIterations int
	// Seed drives the optimisation tilts.
	Seed uint64
}

// OptionsFromConfig builds Options from the tuning configuration.
func OptionsFromConfig(cfg *config.TuningConfig) Options {
	return Options{
		Delta:              cfg.GetDelta(),
		Eps:                cfg.GetEps(),
		Optimize:           cfg.GetOptimize(),
		OptimizeIterations: cfg.GetOptimizeIterations(),
		Seed:               cfg.GetSolverSeed(),
	}
}

// SolverFromConfig builds the minimal disk solver from the tuning configuration.
func SolverFromConfig(cfg *config.TuningConfig) *minball.LPTypeSolver {
	return minball.NewLPTypeSolver(minball.SolverOptions{
		Tolerance: cfg.GetSolverTolerance(),
		MaxPivots: cfg.GetSolverMaxPivots(),
		Seed:      cfg.GetSolverSeed(),
	})
}

func (o Options) validate() error {
	if !(o.Delta > 0) || math.IsInf(o.Delta, 0) {
		return fmt.Errorf("discretize: delta must be positive, got %v", o.Delta)
	}
	if !(o.Eps > 0) || o.Eps > o.Delta {
		return fmt.Errorf("discretize: eps must be in (0, delta], got %v", o.Eps)
	}
	if o.Optimize && o.OptimizeIterations < 1 {
		return fmt.Errorf("discretize: optimize iterations must be positive, got %d", o.OptimizeIterations)
	}
	return nil
}

// Distance is the larger of the two rim vertex distances between d1 and d2.
func Distance(d1, d2 geometry.Disk) float64 {
	l1, l2 := geometry.DisksDistances(d1, d2)
	return math.Max(math.Abs(l1), math.Abs(l2))
}

const (
	// maxShifts bounds the clamp-and-refit attempts for one disk.
	maxShifts = 4
	// maxBridgeDepth bounds the bisection between two disks too far apart.
	maxBridgeDepth = 12
)

type digger struct {
	t    *tunnel.Tunnel
	opts Options
	rng  *rand.Rand

	shifted, bridged int
}

func (d *digger) fit(point, normal r3.Vec) (geometry.Disk, error) {
	if d.opts.Optimize {
		return d.t.OptimizedDisk(point, normal, d.rng, d.opts.OptimizeIterations)
	}
	return d.t.MinimalDisk(point, normal)
}

// shift moves the rim vertices of next towards the matching vertices of
// prev. A vertex behind prev is put just in front of it and a vertex further
// than Delta is pulled back within Delta. The disk spanned by the moved
// vertices is refit to the tunnel.
func (d *digger) shift(prev, next geometry.Disk) (geometry.Disk, error) {
	p1, p2, q1, q2, n := geometry.DiskVertices(prev, next)
	delta := d.opts.Delta
	pull := func(p, q r3.Vec) r3.Vec {
		if !prev.InHalfSpace(q) {
			q = r3.Add(p, r3.Scale(delta/100, prev.Normal))
		}
		if v := r3.Sub(q, p); r3.Norm(v) > delta {
			q = r3.Add(p, r3.Scale(0.99*delta/r3.Norm(v), v))
		}
		return q
	}
	q1, q2 = pull(p1, q1), pull(p2, q2)

	normal := prev.Normal
	if rim := r3.Sub(q2, q1); r3.Norm(rim) > geometry.Epsilon {
		normal = r3.Unit(r3.Cross(rim, n))
		if r3.Dot(normal, prev.Normal) < 0 {
			normal = r3.Scale(-1, normal)
		}
	}
	return d.t.MinimalDisk(r3.Scale(0.5, r3.Add(q1, q2)), normal)
}

// place appends next to disks keeping it within Delta of the last disk.
// A disk too far away is shifted; when that is not enough, blended disks
// bridge the gap.
func (d *digger) place(disks []geometry.Disk, next geometry.Disk) []geometry.Disk {
	prev := disks[len(disks)-1]
	limit := d.opts.Delta + geometry.Epsilon
	dist := Distance(prev, next)
	for k := 0; k < maxShifts && dist > limit; k++ {
		moved, err := d.shift(prev, next)
		if err != nil {
			break
		}
		md := Distance(prev, moved)
		if md >= dist {
			break
		}
		next, dist = moved, md
		d.shifted++
	}
	if dist > limit {
		disks = bridge(disks, prev, next, limit, maxBridgeDepth)
		d.bridged++
	}
	return append(disks, next)
}

// bridge appends the disks strictly between a and b obtained by repeated
// halving until neighbours are within limit.
func bridge(disks []geometry.Disk, a, b geometry.Disk, limit float64, depth int) []geometry.Disk {
	if depth == 0 || Distance(a, b) <= limit {
		return disks
	}
	mid := geometry.LinearCombination(a, 0.5, b, 0.5)
	if r3.Norm(mid.Normal) < geometry.Epsilon {
		return disks
	}
	mid.Normal = r3.Unit(mid.Normal)
	disks = bridge(disks, a, mid, limit, depth-1)
	disks = append(disks, mid)
	return bridge(disks, mid, b, limit, depth-1)
}

// Discretize fits disks along the centre curve of t.
//
// Each segment is walked from its start. The next fit point lies Eps past
// where the segment crosses the plane of the last disk, so disks never step
// backwards, and its normal blends the directions of the current and the
// next segment. A new disk replaces the last one when it is still within
// Delta of the disk before it; otherwise it is appended. An appended disk
// further than Delta from the last one is shifted towards it and refit, and
// any remaining gap is bridged with blended disks. Points whose plane cut
// misses the tunnel are skipped.
func Discretize(ctx context.Context, t *tunnel.Tunnel, opts Options) ([]geometry.Disk, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	curve := t.Curve
	if curve.Len() == 0 {
		return nil, ErrShortTunnel
	}

	d := &digger{t: t, opts: opts, rng: rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5851f42d4c957f2d))}

	first := 0
	for first < curve.Len() && curve.SegmentLength(first) < geometry.Epsilon {
		first++
	}
	if first == curve.Len() {
		return nil, ErrShortTunnel
	}
	start, err := d.fit(curve.Centers[first], curve.WeightedDir(first, 0))
	if err != nil {
		return nil, fmt.Errorf("first disk: %w", err)
	}
	disks := []geometry.Disk{start}
	skipped := 0

	for i := first; i < curve.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		length := curve.SegmentLength(i)
		if length < geometry.Epsilon {
			continue
		}
		origin, dir := curve.Centers[i], curve.SegmentDir(i)
		line := geometry.Line{Point: origin, Dir: dir}

		s := 0.0
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			hit := s
			if p, ok := disks[len(disks)-1].Plane().IntersectLine(line); ok {
				hit = math.Min(r3.Dot(r3.Sub(p, origin), dir), s+opts.Delta)
			}
			s = math.Max(hit, s) + opts.Eps
			if s > length {
				break
			}

			disk, err := d.fit(r3.Add(origin, r3.Scale(s, dir)), curve.WeightedDir(i, s))
			if errors.Is(err, tunnel.ErrNoCut) {
				skipped++
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("segment %d at %.3f: %w", i, s, err)
			}

			n := len(disks)
			if n > 1 && Distance(disks[n-2], disk) < opts.Delta {
				disks[n-1] = disk
			} else {
				disks = d.place(disks, disk)
			}
		}
	}

	if d.shifted > 0 || d.bridged > 0 {
		monitoring.Logf("[discretize] shifted %d disks, bridged %d gaps", d.shifted, d.bridged)
	}
	if skipped > 0 {
		monitoring.Logf("[discretize] skipped %d points outside the tunnel", skipped)
	}
	monitoring.Logf("[discretize] %d disks from %d spheres (delta=%.3f)", len(disks), len(t.Spheres), opts.Delta)
	return disks, nil
}

// PostOptions selects the post-processing steps run by Process.
type PostOptions struct {
	Smooth         bool
	Representative bool
}

// Process runs Discretize with parameters from cfg, then Optimize when
// optimize_rounds is set, followed by the selected post-processing. A
// tunnel without a solver is run with one built from cfg; t itself is left
// unchanged.
func Process(ctx context.Context, t *tunnel.Tunnel, cfg *config.TuningConfig, post PostOptions) ([]geometry.Disk, error) {
	local := *t
	if local.Solver == nil {
		local.Solver = SolverFromConfig(cfg)
	}
	opts := OptionsFromConfig(cfg)
	disks, err := Discretize(ctx, &local, opts)
	if err != nil {
		return nil, err
	}
	if rounds := cfg.GetOptimizeRounds(); rounds > 0 {
		disks = Optimize(&local, disks, rounds, opts)
	}
	if post.Smooth {
		disks = Smooth(disks, cfg.GetMaxRadiusDiff())
	}
	if post.Representative {
		disks = ChooseRepresentative(disks, ThresholdsFromConfig(cfg))
	}
	return disks, nil
}
