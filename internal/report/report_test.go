package report

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/discretize"
	"github.com/banshee-data/minball/internal/geometry"
)

func TestRadiusProfile_WritesPNG(t *testing.T) {
	disks := []geometry.Disk{
		{Center: r3.Vec{X: 0}, Normal: geometry.UnitX, Radius: 3},
		{Center: r3.Vec{X: 1}, Normal: geometry.UnitX, Radius: 1},
		{Center: r3.Vec{X: 2}, Normal: geometry.UnitX, Radius: 2.5},
	}
	path := filepath.Join(t.TempDir(), "profile.png")
	err := RadiusProfile(path, "test tunnel",
		Series{Name: "raw", Disks: disks},
		Series{Name: "smoothed", Disks: discretize.Smooth(disks, 0.5)},
		Series{Name: "empty"},
	)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestRadiusProfile_Errors(t *testing.T) {
	assert.Error(t, RadiusProfile(filepath.Join(t.TempDir(), "x.png"), "none"))

	disks := []geometry.Disk{{Radius: 1}, {Center: r3.Vec{X: 1}, Radius: 1}}
	err := RadiusProfile(filepath.Join(t.TempDir(), "missing", "x.png"), "bad dir", Series{Name: "a", Disks: disks})
	assert.Error(t, err)
}

func TestPalette(t *testing.T) {
	colors := palette(3)
	require.Len(t, colors, 3)
	assert.Equal(t, color.RGBA{R: 195, G: 34, B: 34, A: 255}, colors[0])
	assert.NotEqual(t, colors[0], colors[1])
	assert.Empty(t, palette(0))
}
