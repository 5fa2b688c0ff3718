package tunnel

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/geometry"
)

// Curve is the polyline through the tunnel sphere centres.
type Curve struct {
	Centers []r3.Vec
}

// Len returns the number of segments.
func (c Curve) Len() int {
	if len(c.Centers) < 2 {
		return 0
	}
	return len(c.Centers) - 1
}

// SegmentDir returns the unit direction of segment i.
func (c Curve) SegmentDir(i int) r3.Vec {
	return r3.Unit(r3.Sub(c.Centers[i+1], c.Centers[i]))
}

// SegmentLength returns the length of segment i.
func (c Curve) SegmentLength(i int) float64 {
	return r3.Norm(r3.Sub(c.Centers[i+1], c.Centers[i]))
}

// WeightedDir blends the direction of segment i into that of segment i+1
// by the distance d travelled along segment i. The last segment keeps its
// own direction.
func (c Curve) WeightedDir(i int, d float64) r3.Vec {
	dir := c.SegmentDir(i)
	if i+1 >= c.Len() {
		return dir
	}
	w2 := d / c.SegmentLength(i)
	if w2 < 0 {
		w2 = 0
	} else if w2 > 1 {
		w2 = 1
	}
	return r3.Unit(r3.Add(r3.Scale(1-w2, dir), r3.Scale(w2, c.SegmentDir(i+1))))
}

// PassesThroughDisk reports whether the curve passes through disk in the
// topological sense: the first and the last crossings go the same way.
// A curve vertex lying on the disk splits a crossing over two segments; the
// pair counts as a crossing only if both segments head the same way.
func (c Curve) PassesThroughDisk(disk geometry.Disk) bool {
	firstSgn, lastSgn := 0, 0
	var split *r3.Vec

	for i := 0; i < c.Len(); i++ {
		seg := geometry.Segment{P1: c.Centers[i], P2: c.Centers[i+1]}
		if _, ok := seg.IntersectDisk(disk); !ok {
			continue
		}
		dir := r3.Sub(seg.P2, seg.P1)
		dirSgn := geometry.Sgn(r3.Dot(disk.Normal, dir))
		switch {
		case disk.ContainsPoint(c.Centers[i+1]) && split == nil:
			split = &dir
		case split != nil:
			if dirSgn*geometry.Sgn(r3.Dot(disk.Normal, *split)) > 0 {
				if firstSgn == 0 {
					firstSgn = dirSgn
				}
				lastSgn = dirSgn
			}
			split = nil
		default:
			if firstSgn == 0 {
				firstSgn = dirSgn
			}
			lastSgn = dirSgn
		}
	}
	return firstSgn != 0 && firstSgn == lastSgn
}
