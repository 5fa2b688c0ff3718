package discretize

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/config"
	"github.com/banshee-data/minball/internal/geometry"
)

// Smooth limits the radius change between neighbouring disks to maxDiff.
// Radii are only ever raised, so enclosing disks stay enclosing. A drop
// found walking forward lifts the next disk, and a rise lifts the disks
// behind it until every difference fits. The input is not modified.
func Smooth(disks []geometry.Disk, maxDiff float64) []geometry.Disk {
	out := make([]geometry.Disk, len(disks))
	copy(out, disks)
	for i := 0; i+1 < len(out); i++ {
		if out[i].Radius-out[i+1].Radius > maxDiff {
			out[i+1].Radius = out[i].Radius - maxDiff
		}
		for j := i; j >= 0 && out[j+1].Radius-out[j].Radius > maxDiff; j-- {
			out[j].Radius = out[j+1].Radius - maxDiff
		}
	}
	return out
}

// Thresholds decide when ChooseRepresentative starts a new representative.
type Thresholds struct {
	Center    float64 // distance between centres
	NormalDeg float64 // angle between normals, in degrees
	Radius    float64 // drop in radius
}

// ThresholdsFromConfig builds Thresholds from the tuning configuration.
func ThresholdsFromConfig(cfg *config.TuningConfig) Thresholds {
	return Thresholds{
		Center:    cfg.GetCenterThreshold(),
		NormalDeg: cfg.GetNormalThresholdDeg(),
		Radius:    cfg.GetRadiusThreshold(),
	}
}

// angleDeg returns the angle between u and v in degrees.
func angleDeg(u, v r3.Vec) float64 {
	c := r3.Dot(r3.Unit(u), r3.Unit(v))
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// ChooseRepresentative keeps the first and last disk plus every disk that
// moved away from the last kept one by more than a threshold: its centre
// is too far, its normal turned too much, or its radius dropped too much.
func ChooseRepresentative(disks []geometry.Disk, th Thresholds) []geometry.Disk {
	if len(disks) == 0 {
		return nil
	}
	kept := []geometry.Disk{disks[0]}
	lastIdx := 0
	for i := 1; i < len(disks); i++ {
		last, d := disks[lastIdx], disks[i]
		if r3.Norm(r3.Sub(last.Center, d.Center)) > th.Center ||
			angleDeg(last.Normal, d.Normal) > th.NormalDeg ||
			last.Radius-d.Radius > th.Radius {
			kept = append(kept, d)
			lastIdx = i
		}
	}
	if lastIdx != len(disks)-1 {
		kept = append(kept, disks[len(disks)-1])
	}
	return kept
}

// ArcLengths returns the cumulative distance between consecutive disk
// centres, starting at 0.
func ArcLengths(disks []geometry.Disk) []float64 {
	out := make([]float64, len(disks))
	for i := 1; i < len(disks); i++ {
		out[i] = out[i-1] + r3.Norm(r3.Sub(disks[i].Center, disks[i-1].Center))
	}
	return out
}
