package discretize

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/geometry"
)

func radii(disks []geometry.Disk) []float64 {
	out := make([]float64, len(disks))
	for i, d := range disks {
		out[i] = d.Radius
	}
	return out
}

func withRadii(rs ...float64) []geometry.Disk {
	disks := make([]geometry.Disk, len(rs))
	for i, r := range rs {
		disks[i] = geometry.Disk{Center: r3.Vec{X: float64(i)}, Normal: geometry.UnitX, Radius: r}
	}
	return disks
}

func TestSmooth(t *testing.T) {
	tests := []struct {
		name    string
		in      []float64
		maxDiff float64
		want    []float64
	}{
		{"already smooth", []float64{1, 1.5, 1.2}, 1, []float64{1, 1.5, 1.2}},
		{"drop lifts next", []float64{5, 1, 5}, 1, []float64{5, 4, 5}},
		{"rise lifts previous", []float64{1, 5}, 1, []float64{4, 5}},
		{"rise propagates back", []float64{1, 1, 5}, 1, []float64{3, 4, 5}},
		{"empty", nil, 1, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := withRadii(tt.in...)
			got := radii(Smooth(in, tt.maxDiff))
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Smooth radii mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.in, radii(in), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Smooth modified its input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChooseRepresentative(t *testing.T) {
	th := Thresholds{Center: 3, NormalDeg: 20, Radius: 1}

	t.Run("centre distance", func(t *testing.T) {
		disks := withRadii(2, 2, 2, 2, 2, 2, 2, 2, 2, 2)
		got := ChooseRepresentative(disks, th)
		want := []float64{0, 4, 8, 9}
		xs := make([]float64, len(got))
		for i, d := range got {
			xs[i] = d.Center.X
		}
		if diff := cmp.Diff(want, xs); diff != "" {
			t.Errorf("kept centres mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("normal turn", func(t *testing.T) {
		disks := withRadii(2, 2, 2)
		a := 30 * math.Pi / 180
		disks[1].Normal = r3.Vec{X: math.Cos(a), Y: math.Sin(a)}
		got := ChooseRepresentative(disks, th)
		if len(got) != 3 {
			t.Errorf("expected the turned disk to be kept, got %d disks", len(got))
		}
	})

	t.Run("radius drop", func(t *testing.T) {
		got := ChooseRepresentative(withRadii(3, 2.5, 1.5, 1.4), th)
		want := []float64{3, 1.5, 1.4}
		if diff := cmp.Diff(want, radii(got)); diff != "" {
			t.Errorf("kept radii mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("single and empty", func(t *testing.T) {
		if got := ChooseRepresentative(withRadii(1), th); len(got) != 1 {
			t.Errorf("single disk: got %d", len(got))
		}
		if got := ChooseRepresentative(nil, th); got != nil {
			t.Errorf("empty: got %v", got)
		}
	})
}

func TestArcLengths(t *testing.T) {
	disks := withRadii(1, 1, 1)
	disks[2].Center = r3.Vec{X: 1, Y: 2}
	got := ArcLengths(disks)
	if diff := cmp.Diff([]float64{0, 1, 3}, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("ArcLengths mismatch (-want +got):\n%s", diff)
	}
	if got := ArcLengths(nil); len(got) != 0 {
		t.Errorf("ArcLengths(nil) = %v", got)
	}
}
