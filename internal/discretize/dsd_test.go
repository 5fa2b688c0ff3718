package discretize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/geometry"
)

func TestWriteDSD(t *testing.T) {
	disks := []geometry.Disk{
		{Center: r3.Vec{X: 1, Y: 2.5, Z: -3}, Normal: geometry.UnitX, Radius: 1.25},
		{Center: r3.Vec{}, Normal: geometry.UnitZ, Radius: 0.1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteDSD(&buf, disks))

	want := "1 2.5 -3 1 0 0 1.25\n0 0 0 0 0 1 0.1\n"
	assert.Equal(t, want, buf.String())

	back, err := ReadDSD(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(disks, back); diff != "" {
		t.Errorf("disks changed through DSD (-want +got):\n%s", diff)
	}
}

func TestReadDSD_Separators(t *testing.T) {
	in := `# centre, normal, radius
1,2,3,0,0,1,4.5

1.0  2.0	3.0 0 1 0 2
`
	disks, err := ReadDSD(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, disks, 2)
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, disks[0].Center)
	assert.Equal(t, 4.5, disks[0].Radius)
	assert.Equal(t, geometry.UnitY, disks[1].Normal)
}

func TestReadDSD_Errors(t *testing.T) {
	tests := map[string]string{
		"too few values":  "1 2 3 0 0 1\n",
		"too many values": "1 2 3 0 0 1 2 3\n",
		"not a number":    "1 2 3 0 0 x 2\n",
		"negative radius": "1 2 3 0 0 1 -2\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadDSD(strings.NewReader(in))
			assert.ErrorContains(t, err, "dsd line 1")
		})
	}
}
