package minball

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when no balls are supplied.
	ErrEmptyInput = errors.New("minball: empty input")
	// ErrSizeMismatch is returned when the declared size differs from the
	// number of balls supplied.
	ErrSizeMismatch = errors.New("minball: size does not match number of balls")
	// ErrNegativeRadius is returned for a ball with radius < 0.
	ErrNegativeRadius = errors.New("minball: negative radius")
	// ErrNonFinite is returned for a ball with a NaN or infinite component.
	ErrNonFinite = errors.New("minball: non-finite coordinate or radius")
)

// InvalidSolutionError is the panic value raised when a computed ball fails
// certification or the solver does not converge. It is never returned as an
// error: it signals a solver defect, not bad input.
type InvalidSolutionError struct {
	Result Ball2D
	// Index of the offending input ball, or -1 when the failure is not tied
	// to one input.
	Index  int
	Reason string
}

func (e *InvalidSolutionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("minball: invalid solution %v: %s", e.Result, e.Reason)
	}
	return fmt.Sprintf("minball: invalid solution %v: ball %d: %s", e.Result, e.Index, e.Reason)
}
