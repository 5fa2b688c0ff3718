// Package api serves the minball solver and the tunnel discretizer over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/minball/internal/config"
	"github.com/banshee-data/minball/internal/db"
	"github.com/banshee-data/minball/internal/minball"
	"github.com/banshee-data/minball/internal/monitoring"
	"github.com/banshee-data/minball/internal/timeutil"
	"github.com/banshee-data/minball/internal/version"
)

// ANSI escape codes for the request log
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

// Server holds the handlers' dependencies.
type Server struct {
	db     *db.DB
	runs   *db.RunStore
	solves *db.SolveStore
	cfg    *config.TuningConfig
	solver *minball.LPTypeSolver
	clock  timeutil.Clock
}

// NewServer returns a server storing into database and using cfg as the
// base tuning for every request.
func NewServer(database *db.DB, cfg *config.TuningConfig) *Server {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Server{
		db:     database,
		runs:   db.NewRunStore(database.DB),
		solves: db.NewSolveStore(database.DB),
		cfg:    cfg,
		solver: minball.NewLPTypeSolver(minball.SolverOptions{
			Tolerance: cfg.GetSolverTolerance(),
			MaxPivots: cfg.GetSolverMaxPivots(),
			Seed:      cfg.GetSolverSeed(),
		}),
		clock: timeutil.RealClock{},
	}
}

// SetClock replaces the clock used to stamp and time runs and solves.
func (s *Server) SetClock(c timeutil.Clock) {
	s.clock = c
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, status and duration of every request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the API routes plus the /debug/ pages.
func (s *Server) ServeMux() (*http.ServeMux, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/minball", s.handleMinball)
	mux.HandleFunc("GET /api/solves", s.handleListSolves)
	mux.HandleFunc("/api/discretize", s.handleDiscretize)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	mux.HandleFunc("DELETE /api/runs/{id}", s.handleDeleteRun)
	mux.HandleFunc("GET /api/runs/{id}/disks", s.handleRunDisks)
	mux.HandleFunc("GET /api/runs/{id}/chart", s.handleRunChart)

	debug, err := s.db.AttachAdminRoutes(mux)
	if err != nil {
		return nil, err
	}
	debug.KV("Version", version.Version)
	debug.KV("Git SHA", version.GitSHA)
	debug.KV("Build time", version.BuildTime)
	return mux, nil
}

// limitParam parses the optional ?limit= query value.
func limitParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
