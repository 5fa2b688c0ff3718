// Package report renders PNG plots of discretized tunnels.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/minball/internal/discretize"
	"github.com/banshee-data/minball/internal/geometry"
)

// Series is one named disk sequence drawn by RadiusProfile.
type Series struct {
	Name  string
	Disks []geometry.Disk
}

// RadiusProfile saves a plot of disk radius against arc length to path.
// The image format follows the file extension (.png, .svg, .pdf).
func RadiusProfile(path, title string, series ...Series) error {
	if len(series) == 0 {
		return errors.New("report: no series to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Arc length"
	p.Y.Label.Text = "Radius"
	p.Add(plotter.NewGrid())

	colors := palette(len(series))
	for i, s := range series {
		if len(s.Disks) == 0 {
			continue
		}
		arc := discretize.ArcLengths(s.Disks)
		pts := make(plotter.XYs, len(s.Disks))
		for j, d := range s.Disks {
			pts[j] = plotter.XY{X: arc[j], Y: d.Radius}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true

	if err := p.Save(14*vg.Inch, 6*vg.Inch, filepath.Clean(path)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// palette spreads n hues evenly around the colour wheel.
func palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		r, g, b := hslToRGB(float64(i)/float64(max(n, 1)), 0.7, 0.45)
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}
	q := l * (1 + s)
	if l >= 0.5 {
		q = l + s - l*s
	}
	p := 2*l - q
	channel := func(t float64) uint8 {
		t -= math.Floor(t)
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 0.5:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	return channel(h + 1.0/3), channel(h), channel(h - 1.0/3)
}
