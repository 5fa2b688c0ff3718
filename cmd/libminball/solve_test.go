package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/minball/internal/minball"
	"github.com/banshee-data/minball/internal/monitoring"
)

func TestSolve(t *testing.T) {
	balls := []minball.Ball2D{
		{Center: [2]float64{0, 0}, Radius: 1},
		{Center: [2]float64{10, 0}, Radius: 1},
	}
	got, status := solve(balls, len(balls))
	assert.Equal(t, statusOK, status)
	assert.InDelta(t, 5, got.Center[0], 1e-9)
	assert.InDelta(t, 0, got.Center[1], 1e-9)
	assert.InDelta(t, 6, got.Radius, 1e-9)
}

func TestSolve_Rejected(t *testing.T) {
	capture, restore := monitoring.CaptureLogs()
	defer restore()

	one := []minball.Ball2D{{Center: [2]float64{1, 2}, Radius: 1}}
	tests := []struct {
		name   string
		balls  []minball.Ball2D
		size   int
		status int32
	}{
		{"empty", nil, 0, statusEmptyInput},
		{"null pointer with size", nil, 3, statusSizeMismatch},
		{"negative size", nil, -1, statusSizeMismatch},
		{"negative radius", []minball.Ball2D{{Radius: -2}}, 1, statusNegativeRadius},
		{"nan center", []minball.Ball2D{{Center: [2]float64{math.NaN(), 0}, Radius: 1}}, 1, statusNonFinite},
		{"infinite radius", []minball.Ball2D{{Radius: math.Inf(1)}}, 1, statusNonFinite},
		{"size larger than input", one, 2, statusSizeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := solve(tt.balls, tt.size)
			assert.Equal(t, tt.status, status)
			assert.True(t, math.IsNaN(got.Center[0]))
			assert.True(t, math.IsNaN(got.Center[1]))
			assert.Equal(t, -1.0, got.Radius)
		})
	}
	assert.Len(t, capture.Lines(), len(tests))
}
