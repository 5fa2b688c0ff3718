package minball

import "fmt"

// Validate checks that balls is a usable solver input: non-empty, every
// component finite and every radius non-negative. The returned error wraps
// one of the package sentinels and names the first offending index.
func Validate(balls []Ball2D) error {
	if len(balls) == 0 {
		return ErrEmptyInput
	}
	for i, b := range balls {
		if !b.IsFinite() {
			return fmt.Errorf("ball %d: %w", i, ErrNonFinite)
		}
		if b.Radius < 0 {
			return fmt.Errorf("ball %d has radius %g: %w", i, b.Radius, ErrNegativeRadius)
		}
	}
	return nil
}

// defaultSolver is shared by the package-level helpers. LPTypeSolver keeps no
// per-call state, so sharing it is safe.
var defaultSolver = NewLPTypeSolver(SolverOptions{})

// ComputeMinball2D returns the minimum enclosing ball of the first size
// balls. size must equal len(balls); it mirrors the explicit element count of
// the C boundary and is checked rather than trusted.
func ComputeMinball2D(balls []Ball2D, size int) (Ball2D, error) {
	if size != len(balls) {
		return Ball2D{}, fmt.Errorf("size %d, got %d balls: %w", size, len(balls), ErrSizeMismatch)
	}
	return defaultSolver.Solve(balls)
}

// Compute returns the minimum enclosing ball of balls using the default
// solver.
func Compute(balls []Ball2D) (Ball2D, error) {
	return defaultSolver.Solve(balls)
}
