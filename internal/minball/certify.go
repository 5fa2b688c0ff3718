package minball

import (
	"math"

	"github.com/banshee-data/minball/internal/monitoring"
)

// Certify checks result against balls with the relative tolerance tol: it
// must be finite, have a non-negative radius and contain every ball. It
// returns nil or an *InvalidSolutionError; it does not panic.
func Certify(balls []Ball2D, result Ball2D, tol float64) error {
	abs := absTolerance(balls, tol)
	if !result.IsFinite() || result.Radius < 0 {
		return &InvalidSolutionError{Result: result, Index: -1, Reason: "result is not a finite ball"}
	}
	for i, b := range balls {
		if v := result.Violation(b); v > abs {
			return &InvalidSolutionError{Result: result, Index: i, Reason: "ball not contained"}
		}
	}
	return nil
}

// certify is the always-on check run before a result leaves the solver.
// tol is already absolute. Besides containment it requires every basis ball
// to touch the result, which is what makes the result minimal.
func certify(balls []Ball2D, result Ball2D, basis []Ball2D, tol float64) {
	if !result.IsFinite() || result.Radius < 0 {
		fail(&InvalidSolutionError{Result: result, Index: -1, Reason: "result is not a finite ball"})
	}
	if len(basis) == 0 || len(basis) > Dim+1 {
		fail(&InvalidSolutionError{Result: result, Index: -1, Reason: "basis size out of range"})
	}
	for i, b := range balls {
		if result.Violation(b) > tol {
			fail(&InvalidSolutionError{Result: result, Index: i, Reason: "ball not contained"})
		}
	}
	for _, b := range basis {
		if math.Abs(result.Violation(b)) > tol {
			fail(&InvalidSolutionError{Result: result, Index: -1, Reason: "basis ball not tangent"})
		}
	}
}

func fail(err *InvalidSolutionError) {
	monitoring.Logf("[minball] FATAL: %v", err)
	panic(err)
}
