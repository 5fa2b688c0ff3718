package minball

import (
	"math"
	"math/rand/v2"
)

const (
	// DefaultTolerance is the relative containment slack. It is scaled by
	// the extent of the input before use.
	DefaultTolerance = 1e-9

	// pcgStream is the fixed second PCG word; only the seed varies.
	pcgStream = 0x9e3779b97f4a7c15
)

// Solver computes the minimum enclosing ball of a set of balls.
type Solver interface {
	Solve(balls []Ball2D) (Ball2D, error)
}

// SolverOptions configures an LPTypeSolver. Zero values select defaults.
type SolverOptions struct {
	// Tolerance is the relative containment slack (default DefaultTolerance).
	Tolerance float64
	// MaxPivots bounds the number of basis repairs. 0 picks a bound from
	// the input size.
	MaxPivots int
	// Seed drives the input shuffle. Equal seeds give identical runs.
	Seed uint64
}

// Stats describes a single solve.
type Stats struct {
	Pivots int
	Passes int
	// Basis holds the balls that touch the result, at most three.
	Basis []Ball2D
}

// LPTypeSolver is a randomized incremental solver. It holds configuration
// only, so one value may be shared between goroutines.
type LPTypeSolver struct {
	tolerance float64
	maxPivots int
	seed      uint64
}

// NewLPTypeSolver returns a solver configured by opts.
func NewLPTypeSolver(opts SolverOptions) *LPTypeSolver {
	tol := opts.Tolerance
	if tol <= 0 || math.IsNaN(tol) {
		tol = DefaultTolerance
	}
	maxPivots := opts.MaxPivots
	if maxPivots < 0 {
		maxPivots = 0
	}
	return &LPTypeSolver{tolerance: tol, maxPivots: maxPivots, seed: opts.Seed}
}

// Tolerance returns the relative tolerance the solver certifies against.
func (s *LPTypeSolver) Tolerance() float64 { return s.tolerance }

func (s *LPTypeSolver) pivotLimit(n int) int {
	if s.maxPivots > 0 {
		return s.maxPivots
	}
	return 1000 + 16*n
}

// Solve implements Solver.
func (s *LPTypeSolver) Solve(balls []Ball2D) (Ball2D, error) {
	ball, _, err := s.SolveStats(balls)
	return ball, err
}

// SolveStats is Solve that also reports how the result was reached.
//
// Algorithm:
//  1. Validate, copy and shuffle the input, then translate it so the
//     first input centre is the origin.
//  2. Start with the first ball as both basis and candidate.
//  3. Scan all balls. Each one outside the candidate by more than the
//     tolerance triggers a basis repair against it.
//  4. Repeat until a pass makes no repair, certify, and translate the
//     result back.
//
// Each repair strictly grows the candidate, so the loop ends; MaxPivots
// only guards against floating point stalls.
func (s *LPTypeSolver) SolveStats(balls []Ball2D) (Ball2D, Stats, error) {
	if err := Validate(balls); err != nil {
		return Ball2D{}, Stats{}, err
	}

	// Work relative to the first centre so the arithmetic resolves the
	// spread of the input rather than its distance from the origin.
	ox, oy := balls[0].Center[0], balls[0].Center[1]
	work := make([]Ball2D, len(balls))
	local := make([]Ball2D, len(balls))
	copy(work, balls)
	rng := rand.New(rand.NewPCG(s.seed, pcgStream))
	rng.Shuffle(len(work), func(i, j int) { work[i], work[j] = work[j], work[i] })
	for i, b := range work {
		local[i] = b.translate(-ox, -oy)
	}

	tol := absTolerance(local, s.tolerance)
	limit := s.pivotLimit(len(work))

	basis := []int{0}
	ball := local[0]
	var stats Stats
	for {
		stats.Passes++
		repaired := false
		for i := range local {
			if ball.Violation(local[i]) <= tol {
				continue
			}
			if stats.Pivots >= limit {
				fail(&InvalidSolutionError{
					Result: ball.translate(ox, oy),
					Index:  -1,
					Reason: "pivot limit reached before convergence",
				})
			}
			stats.Pivots++
			basis, ball = repair(local, basis, i, tol)
			repaired = true
		}
		if !repaired {
			break
		}
	}

	stats.Basis = make([]Ball2D, len(basis))
	localBasis := make([]Ball2D, len(basis))
	for i, idx := range basis {
		stats.Basis[i] = work[idx]
		localBasis[i] = local[idx]
	}
	certify(local, ball, localBasis, tol)
	return ball.translate(ox, oy), stats, nil
}

// repair returns the basis and ball of the minimum enclosing ball of the
// balls in basis plus set[h]. The new basis always contains h, so only
// supports that include h are tried.
func repair(set []Ball2D, basis []int, h int, tol float64) ([]int, Ball2D) {
	members := append(append(make([]int, 0, len(basis)+1), h), basis...)

	var supports [][]int
	supports = append(supports, []int{h})
	for i := range basis {
		supports = append(supports, []int{h, basis[i]})
	}
	for i := range basis {
		for j := i + 1; j < len(basis); j++ {
			supports = append(supports, []int{h, basis[i], basis[j]})
		}
	}

	var (
		best        Ball2D
		bestSupport []int
		found       bool

		// least-violating candidate, used only if none is within tol
		fallback        Ball2D
		fallbackSupport []int
		fallbackWorst   = math.Inf(1)
	)
	support := make([]Ball2D, 0, 3)
	for _, idx := range supports {
		support = support[:0]
		for _, i := range idx {
			support = append(support, set[i])
		}
		for _, cand := range tangentBalls(support, tol) {
			worst := math.Inf(-1)
			for _, m := range members {
				worst = math.Max(worst, cand.Violation(set[m]))
			}
			if worst <= tol {
				if !found || cand.Radius < best.Radius {
					best, bestSupport, found = cand, idx, true
				}
				continue
			}
			if worst < fallbackWorst {
				fallback, fallbackSupport, fallbackWorst = cand, idx, worst
			}
		}
	}
	if !found {
		if fallbackSupport == nil {
			fail(&InvalidSolutionError{Result: set[h], Index: -1, Reason: "no tangent ball for basis repair"})
		}
		best, bestSupport = fallback, fallbackSupport
	}
	return append([]int(nil), bestSupport...), best
}
