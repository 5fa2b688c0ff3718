package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/minball/internal/discretize"
	"github.com/banshee-data/minball/internal/httputil"
)

// handleRunChart renders the disk radius of a run against arc length as an
// HTML line chart.
func (s *Server) handleRunChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := s.runs.GetRun(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	disks, err := s.runs.ListDisks(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	arc := discretize.ArcLengths(disks)
	data := make([]opts.LineData, len(disks))
	minR, maxR := 0.0, 0.0
	for i, d := range disks {
		data[i] = opts.LineData{Value: []interface{}{arc[i], d.Radius}}
		if i == 0 || d.Radius < minR {
			minR = d.Radius
		}
		if d.Radius > maxR {
			maxR = d.Radius
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Tunnel radius profile", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Radius profile: %s", run.Source),
			Subtitle: fmt.Sprintf("run=%s disks=%d min=%.3f max=%.3f", run.RunID, len(disks), minR, maxR),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "arc length", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "radius", NameLocation: "middle", NameGap: 30}),
	)
	line.AddSeries("radius", data)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
