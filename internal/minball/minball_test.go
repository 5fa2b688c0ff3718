package minball

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/minball/internal/monitoring"
)

const testEps = 1e-9

func assertBall(t *testing.T, expected, actual Ball2D) {
	t.Helper()
	if math.Abs(expected.Center[0]-actual.Center[0]) > testEps ||
		math.Abs(expected.Center[1]-actual.Center[1]) > testEps {
		t.Errorf("Centers differ: %v vs %v (expected vs actual)", expected.Center, actual.Center)
	}
	if math.Abs(expected.Radius-actual.Radius) > testEps {
		t.Errorf("Radiuses differ: %f vs %f (expected vs actual)", expected.Radius, actual.Radius)
	}
}

func TestComputeMinball2D_ClosedForms(t *testing.T) {
	cases := []struct {
		name     string
		balls    []Ball2D
		expected Ball2D
	}{
		{
			name:     "single ball",
			balls:    []Ball2D{NewBall2D(0, 0, 5)},
			expected: NewBall2D(0, 0, 5),
		},
		{
			name:     "two balls on a line",
			balls:    []Ball2D{NewBall2D(0, 0, 1), NewBall2D(10, 0, 1)},
			expected: NewBall2D(5, 0, 6),
		},
		{
			name:     "concentric balls",
			balls:    []Ball2D{NewBall2D(0, 0, 2), NewBall2D(0, 0, 5)},
			expected: NewBall2D(0, 0, 5),
		},
		{
			name:     "two symmetric circles",
			balls:    []Ball2D{NewBall2D(-1, 0, 1), NewBall2D(1, 0, 1)},
			expected: NewBall2D(0, 0, 2),
		},
		{
			name:     "two asymmetric circles",
			balls:    []Ball2D{NewBall2D(-1, 0, 2), NewBall2D(1, 0, 1)},
			expected: NewBall2D(-0.5, 0, 2.5),
		},
		{
			name: "one ball swallows the rest",
			balls: []Ball2D{
				NewBall2D(1, 1, 1), NewBall2D(0, 0, 5), NewBall2D(-2, 0, 0.5),
			},
			expected: NewBall2D(0, 0, 5),
		},
		{
			name: "square corners",
			balls: []Ball2D{
				NewBall2D(1, 1, 0), NewBall2D(-1, 1, 0), NewBall2D(-1, -1, 0), NewBall2D(1, -1, 0),
			},
			expected: NewBall2D(0, 0, math.Sqrt2),
		},
		{
			name:     "right triangle points",
			balls:    []Ball2D{NewBall2D(0, 0, 0), NewBall2D(4, 0, 0), NewBall2D(0, 3, 0)},
			expected: NewBall2D(2, 1.5, 2.5),
		},
		{
			name:     "obtuse triangle points",
			balls:    []Ball2D{NewBall2D(0, 0, 0), NewBall2D(10, 0, 0), NewBall2D(5, 1, 0)},
			expected: NewBall2D(5, 0, 5),
		},
		{
			name: "three equal circles on an equilateral triangle",
			balls: []Ball2D{
				NewBall2D(0, 1, 0.5),
				NewBall2D(-math.Sqrt(3)/2, -0.5, 0.5),
				NewBall2D(math.Sqrt(3)/2, -0.5, 0.5),
			},
			expected: NewBall2D(0, 0, 1.5),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeMinball2D(tc.balls, len(tc.balls))
			require.NoError(t, err)
			assertBall(t, tc.expected, got)
		})
	}
}

func TestComputeMinball2D_InvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		balls []Ball2D
		size  int
		want  error
	}{
		{"empty", nil, 0, ErrEmptyInput},
		{"size larger than slice", []Ball2D{NewBall2D(0, 0, 1)}, 2, ErrSizeMismatch},
		{"negative size", []Ball2D{NewBall2D(0, 0, 1)}, -1, ErrSizeMismatch},
		{"negative radius", []Ball2D{NewBall2D(0, 0, 1), NewBall2D(1, 0, -1)}, 2, ErrNegativeRadius},
		{"nan centre", []Ball2D{NewBall2D(math.NaN(), 0, 1)}, 1, ErrNonFinite},
		{"infinite radius", []Ball2D{NewBall2D(0, 0, math.Inf(1))}, 1, ErrNonFinite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeMinball2D(tc.balls, tc.size)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v, want %v", err, tc.want)
		})
	}
}

func TestValidate_ReportsIndex(t *testing.T) {
	err := Validate([]Ball2D{NewBall2D(0, 0, 1), NewBall2D(0, 0, 1), NewBall2D(3, 3, -2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ball 2")
}

func randomBalls(rng *rand.Rand, n int, pointsOnly bool) []Ball2D {
	balls := make([]Ball2D, n)
	for i := range balls {
		r := 0.0
		if !pointsOnly {
			r = rng.Float64() * 3
		}
		balls[i] = NewBall2D(rng.Float64()*20-10, rng.Float64()*20-10, r)
	}
	return balls
}

func TestSolve_ContainmentAndTangency(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	solver := NewLPTypeSolver(SolverOptions{Seed: 3})
	for trial := 0; trial < 200; trial++ {
		balls := randomBalls(rng, 1+rng.IntN(60), trial%4 == 0)
		got, stats, err := solver.SolveStats(balls)
		require.NoError(t, err)

		tol := 1e-7
		for i, b := range balls {
			if got.Violation(b) > tol {
				t.Fatalf("trial %d: ball %d %v not contained in %v", trial, i, b, got)
			}
		}
		require.NotEmpty(t, stats.Basis)
		require.LessOrEqual(t, len(stats.Basis), 3)
		for _, b := range stats.Basis {
			assert.InDelta(t, 0, got.Violation(b), tol, "basis ball %v not tangent", b)
		}
		require.NoError(t, Certify(balls, got, DefaultTolerance))
	}
}

// bruteForce enumerates every support of up to three balls and returns the
// smallest tangent ball that contains all of them.
func bruteForce(balls []Ball2D) Ball2D {
	tol := absTolerance(balls, 1e-9)
	best := Ball2D{Radius: math.Inf(1)}
	consider := func(support ...Ball2D) {
		for _, cand := range tangentBalls(support, tol) {
			if cand.Radius >= best.Radius {
				continue
			}
			ok := true
			for _, b := range balls {
				if cand.Violation(b) > tol {
					ok = false
					break
				}
			}
			if ok {
				best = cand
			}
		}
	}
	for i := range balls {
		consider(balls[i])
		for j := i + 1; j < len(balls); j++ {
			consider(balls[i], balls[j])
			for k := j + 1; k < len(balls); k++ {
				consider(balls[i], balls[j], balls[k])
			}
		}
	}
	return best
}

func TestSolve_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	for trial := 0; trial < 150; trial++ {
		balls := randomBalls(rng, 1+rng.IntN(8), trial%3 == 0)
		want := bruteForce(balls)
		got, err := Compute(balls)
		require.NoError(t, err)
		assert.InDelta(t, want.Radius, got.Radius, 1e-7, "trial %d radius", trial)
		assert.InDelta(t, want.Center[0], got.Center[0], 1e-6, "trial %d centre x", trial)
		assert.InDelta(t, want.Center[1], got.Center[1], 1e-6, "trial %d centre y", trial)
	}
}

func TestSolve_FarFromOrigin(t *testing.T) {
	for _, off := range []float64{0, 1e6, 1e9, 1e11, 1e12, -3e12} {
		balls := []Ball2D{NewBall2D(off, 0, 1), NewBall2D(off+10, 0, 1)}
		got, err := Compute(balls)
		require.NoError(t, err)
		assert.InDelta(t, 6, got.Radius, 1e-9, "offset %g radius", off)
		assert.InDelta(t, off+5, got.Center[0], 1e-9, "offset %g centre", off)
		require.NoError(t, Certify(balls, got, DefaultTolerance), "offset %g", off)
	}
}

func TestSolve_TranslationInvariance(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 3))
	for trial := 0; trial < 50; trial++ {
		balls := randomBalls(rng, 2+rng.IntN(20), trial%2 == 0)
		want, err := Compute(balls)
		require.NoError(t, err)

		dx, dy := 3e11+0.3, -7e11
		moved := make([]Ball2D, len(balls))
		for i, b := range balls {
			moved[i] = b.translate(dx, dy)
		}
		got, err := Compute(moved)
		require.NoError(t, err)
		// Coordinates near 1e12 are only resolved to about 1e-4.
		assert.InDelta(t, want.Radius, got.Radius, 1e-3, "trial %d radius", trial)
		assert.InDelta(t, want.Center[0]+dx, got.Center[0], 1e-3, "trial %d centre x", trial)
		assert.InDelta(t, want.Center[1]+dy, got.Center[1], 1e-3, "trial %d centre y", trial)
		require.NoError(t, Certify(moved, got, DefaultTolerance), "trial %d", trial)
	}
}

func TestCertify_ToleranceFollowsExtent(t *testing.T) {
	off := 1e12
	balls := []Ball2D{NewBall2D(off, 0, 1), NewBall2D(off+10, 0, 1)}
	err := Certify(balls, NewBall2D(off+10, 0, 1), DefaultTolerance)
	var invalid *InvalidSolutionError
	require.ErrorAs(t, err, &invalid, "ball 10 units outside must not be accepted")
	assert.Equal(t, 0, invalid.Index)

	assert.Less(t, absTolerance(balls, DefaultTolerance), 1e-2)
}

func TestSolve_PermutationInvariance(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	balls := randomBalls(rng, 40, false)
	want, err := Compute(balls)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		perm := append([]Ball2D(nil), balls...)
		rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		got, err := Compute(perm)
		require.NoError(t, err)
		assertBall(t, want, got)
	}
}

func TestSolve_DeterministicAcrossSeeds(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	balls := randomBalls(rng, 30, false)

	first, err := NewLPTypeSolver(SolverOptions{Seed: 1}).Solve(balls)
	require.NoError(t, err)
	for seed := uint64(2); seed < 12; seed++ {
		got, err := NewLPTypeSolver(SolverOptions{Seed: seed}).Solve(balls)
		require.NoError(t, err)
		assertBall(t, first, got)
	}
	again, err := NewLPTypeSolver(SolverOptions{Seed: 1}).Solve(balls)
	require.NoError(t, err)
	assert.Equal(t, first, again, "same seed must give a bit-identical result")
}

func TestSolve_DoesNotMutateInput(t *testing.T) {
	balls := []Ball2D{NewBall2D(3, 0, 1), NewBall2D(0, 4, 2), NewBall2D(-1, -1, 0.5)}
	orig := append([]Ball2D(nil), balls...)
	_, err := Compute(balls)
	require.NoError(t, err)
	assert.Equal(t, orig, balls)
}

func TestSolve_Concurrent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	inputs := make([][]Ball2D, 16)
	wants := make([]Ball2D, len(inputs))
	for i := range inputs {
		inputs[i] = randomBalls(rng, 25, false)
		var err error
		wants[i], err = Compute(inputs[i])
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make([]Ball2D, len(inputs))
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Compute(inputs[i])
		}(i)
	}
	wg.Wait()
	for i := range inputs {
		assert.Equal(t, wants[i], results[i])
	}
}

func TestSolve_PivotLimitPanics(t *testing.T) {
	capture, restore := monitoring.CaptureLogs()
	defer restore()

	// Three points of an equilateral triangle always need two repairs.
	balls := []Ball2D{
		NewBall2D(0, 1, 0),
		NewBall2D(-math.Sqrt(3)/2, -0.5, 0),
		NewBall2D(math.Sqrt(3)/2, -0.5, 0),
	}
	solver := NewLPTypeSolver(SolverOptions{MaxPivots: 1})

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		invalid, ok := r.(*InvalidSolutionError)
		require.True(t, ok, "panic value %T", r)
		assert.Contains(t, invalid.Error(), "pivot limit")
		require.Len(t, capture.Lines(), 1)
		assert.Contains(t, capture.Lines()[0], "FATAL")
	}()
	_, _ = solver.Solve(balls)
}

func TestCertify(t *testing.T) {
	balls := []Ball2D{NewBall2D(0, 0, 1), NewBall2D(10, 0, 1)}

	require.NoError(t, Certify(balls, NewBall2D(5, 0, 6), DefaultTolerance))

	err := Certify(balls, NewBall2D(5, 0, 5.5), DefaultTolerance)
	var invalid *InvalidSolutionError
	require.ErrorAs(t, err, &invalid)
	assert.GreaterOrEqual(t, invalid.Index, 0)

	err = Certify(balls, NewBall2D(math.NaN(), 0, 6), DefaultTolerance)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, -1, invalid.Index)
}

func TestTangent3_Apollonius(t *testing.T) {
	h := 2 * math.Sqrt(3)
	a, b, c := NewBall2D(0, 0, 1), NewBall2D(4, 0, 1), NewBall2D(2, h, 1)
	got := tangent3(a, b, c, 1e-12)
	require.NotEmpty(t, got)

	centroid := NewBall2D(2, h/3, 0)
	want := NewBall2D(2, h/3, centroid.Distance(a)+1)
	found := false
	for _, g := range got {
		if math.Abs(g.Radius-want.Radius) < 1e-9 {
			assertBall(t, want, g)
			found = true
		}
	}
	assert.True(t, found, "outer tangent ball not among %v", got)

	// collinear centres have no finite three-ball solution
	assert.Empty(t, tangent3(NewBall2D(0, 0, 1), NewBall2D(1, 0, 1), NewBall2D(2, 0, 1), 1e-12))
}

func TestTangent2_NestedBalls(t *testing.T) {
	_, ok := tangent2(NewBall2D(0, 0, 5), NewBall2D(1, 0, 1))
	assert.False(t, ok)

	b, ok := tangent2(NewBall2D(0, 0, 1), NewBall2D(4, 0, 1))
	require.True(t, ok)
	assertBall(t, NewBall2D(2, 0, 3), b)
}

func TestBall2D_Contains(t *testing.T) {
	outer := NewBall2D(0, 0, 3)
	assert.True(t, outer.Contains(NewBall2D(1, 0, 2), 0))
	assert.False(t, outer.Contains(NewBall2D(1, 0, 2.5), 0))
	assert.True(t, outer.ContainsPoint(0, 3, 1e-12))
	assert.False(t, outer.ContainsPoint(0, 3.1, 1e-12))
}
