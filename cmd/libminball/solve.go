package main

import (
	"errors"
	"math"

	"github.com/banshee-data/minball/internal/minball"
	"github.com/banshee-data/minball/internal/monitoring"
)

// Status codes shared with minball_C_interface.h.
const (
	statusOK             int32 = 0
	statusEmptyInput     int32 = 1
	statusSizeMismatch   int32 = 2
	statusNegativeRadius int32 = 3
	statusNonFinite      int32 = 4
)

// rejected is returned by compute_minball2D for input it refuses.
func rejected() minball.Ball2D {
	return minball.Ball2D{Center: [2]float64{math.NaN(), math.NaN()}, Radius: -1}
}

func statusOf(err error) int32 {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, minball.ErrEmptyInput):
		return statusEmptyInput
	case errors.Is(err, minball.ErrSizeMismatch):
		return statusSizeMismatch
	case errors.Is(err, minball.ErrNegativeRadius):
		return statusNegativeRadius
	default:
		return statusNonFinite
	}
}

// solve runs the solver for the C exports. An invalid solution is not
// recovered: it panics and takes the host process down with it.
func solve(balls []minball.Ball2D, size int) (minball.Ball2D, int32) {
	result, err := minball.ComputeMinball2D(balls, size)
	if err != nil {
		monitoring.Logf("[libminball] rejected input: %v", err)
		return rejected(), statusOf(err)
	}
	return result, statusOK
}
