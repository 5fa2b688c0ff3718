package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/config"
	"github.com/banshee-data/minball/internal/db"
	"github.com/banshee-data/minball/internal/discretize"
	"github.com/banshee-data/minball/internal/geometry"
	"github.com/banshee-data/minball/internal/httputil"
	"github.com/banshee-data/minball/internal/monitoring"
	"github.com/banshee-data/minball/internal/security"
	"github.com/banshee-data/minball/internal/tunnel"
)

// maxPDBUpload bounds the body of POST /api/discretize.
const maxPDBUpload = 64 << 20

// Disk is the wire form of a geometry.Disk.
type Disk struct {
	Center [3]float64 `json:"center"`
	Normal [3]float64 `json:"normal"`
	Radius float64    `json:"radius"`
}

func vecArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// DisksToWire converts disks to their wire form.
func DisksToWire(disks []geometry.Disk) []Disk {
	out := make([]Disk, len(disks))
	for i, d := range disks {
		out[i] = Disk{Center: vecArray(d.Center), Normal: vecArray(d.Normal), Radius: d.Radius}
	}
	return out
}

// DisksFromWire converts wire disks back to geometry.
func DisksFromWire(disks []Disk) []geometry.Disk {
	out := make([]geometry.Disk, len(disks))
	for i, d := range disks {
		out[i] = geometry.Disk{
			Center: r3.Vec{X: d.Center[0], Y: d.Center[1], Z: d.Center[2]},
			Normal: r3.Vec{X: d.Normal[0], Y: d.Normal[1], Z: d.Normal[2]},
			Radius: d.Radius,
		}
	}
	return out
}

// DiscretizeResponse is returned by POST /api/discretize.
type DiscretizeResponse struct {
	Run   *db.Run `json:"run"`
	Disks []Disk  `json:"disks"`
}

// tuningFromQuery overlays query parameters on the server's base tuning.
func (s *Server) tuningFromQuery(r *http.Request) (*config.TuningConfig, discretize.PostOptions, error) {
	cfg := config.EmptyTuningConfig()
	cfg.Merge(s.cfg)
	var post discretize.PostOptions
	q := r.URL.Query()

	floats := []struct {
		name string
		dst  **float64
	}{
		{"delta", &cfg.Delta},
		{"eps_fraction", &cfg.EpsFraction},
		{"max_radius_diff", &cfg.MaxRadiusDiff},
		{"center_threshold", &cfg.CenterThreshold},
		{"normal_threshold_deg", &cfg.NormalThresholdDeg},
		{"radius_threshold", &cfg.RadiusThreshold},
	}
	for _, f := range floats {
		if v := q.Get(f.name); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, post, fmt.Errorf("invalid %s: %q", f.name, v)
			}
			*f.dst = &x
		}
	}
	bools := []struct {
		name string
		dst  *bool
	}{
		{"smooth", &post.Smooth},
		{"representative", &post.Representative},
	}
	for _, b := range bools {
		if v := q.Get(b.name); v != "" {
			x, err := strconv.ParseBool(v)
			if err != nil {
				return nil, post, fmt.Errorf("invalid %s: %q", b.name, v)
			}
			*b.dst = x
		}
	}
	if v := q.Get("optimize"); v != "" {
		x, err := strconv.ParseBool(v)
		if err != nil {
			return nil, post, fmt.Errorf("invalid optimize: %q", v)
		}
		cfg.Optimize = &x
	}
	if v := q.Get("optimize_rounds"); v != "" {
		x, err := strconv.Atoi(v)
		if err != nil {
			return nil, post, fmt.Errorf("invalid optimize_rounds: %q", v)
		}
		cfg.OptimizeRounds = &x
	}
	if err := cfg.Validate(); err != nil {
		return nil, post, err
	}
	return cfg, post, nil
}

// discretize runs discretize.Process, recovering invalid minimal disk
// solutions like solve does.
func (s *Server) discretize(ctx context.Context, tnl *tunnel.Tunnel, cfg *config.TuningConfig, post discretize.PostOptions) (disks []geometry.Disk, err error) {
	defer recoverInvalidSolution(&err)
	return discretize.Process(ctx, tnl, cfg, post)
}

func (s *Server) handleDiscretize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	cfg, post, err := s.tuningFromQuery(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	source := "upload"
	if v := r.URL.Query().Get("source"); v != "" {
		source = security.SanitizeFilename(v)
	}

	tnl, err := tunnel.LoadPDB(http.MaxBytesReader(w, r.Body, maxPDBUpload))
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	start := s.clock.Now()
	disks, err := s.discretize(r.Context(), tnl, cfg, post)
	if err != nil {
		if errors.Is(err, discretize.ErrShortTunnel) || errors.Is(err, tunnel.ErrNoCut) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalServerError(w, err.Error())
		return
	}
	elapsed := s.clock.Since(start)

	params, err := json.Marshal(struct {
		*config.TuningConfig
		Smooth         bool `json:"smooth"`
		Representative bool `json:"representative"`
	}{cfg, post.Smooth, post.Representative})
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	run := &db.Run{
		Source:      source,
		ParamsJSON:  params,
		SphereCount: len(tnl.Spheres),
		DurationMs:  float64(elapsed.Microseconds()) / 1000,
		CreatedAt:   start.UnixNano(),
	}
	if err := s.runs.CreateRun(run); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if err := s.runs.InsertDisks(run.RunID, disks); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	run.DiskCount = len(disks)
	monitoring.Logf("[api] run %s: %d disks from %s in %v", run.RunID, len(disks), source, elapsed)

	httputil.WriteJSON(w, http.StatusCreated, DiscretizeResponse{Run: run, Disks: DisksToWire(disks)})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		httputil.BadRequest(w, "invalid limit")
		return
	}
	runs, err := s.runs.ListRuns(limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if runs == nil {
		runs = []*db.Run{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.GetRun(r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	httputil.WriteJSONOK(w, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.runs.DeleteRun(r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRunDisks(w http.ResponseWriter, r *http.Request) {
	disks, err := s.runs.ListDisks(r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		httputil.WriteJSONOK(w, DisksToWire(disks))
	case "dsd":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.dsd", r.PathValue("id")))
		if err := discretize.WriteDSD(w, disks); err != nil {
			monitoring.Logf("[api] write dsd: %v", err)
		}
	default:
		httputil.BadRequest(w, fmt.Sprintf("unknown format %q", format))
	}
}
