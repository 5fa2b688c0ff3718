package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/banshee-data/minball/internal/db"
	"github.com/banshee-data/minball/internal/httputil"
	"github.com/banshee-data/minball/internal/minball"
	"github.com/banshee-data/minball/internal/monitoring"
)

// MinballRequest is the body of POST /api/minball. Size defaults to the
// number of balls.
type MinballRequest struct {
	Balls []minball.Ball2D `json:"balls"`
	Size  *int             `json:"size,omitempty"`
}

// MinballResponse is the enclosing ball plus solver bookkeeping.
type MinballResponse struct {
	minball.Ball2D
	Pivots  int    `json:"pivots"`
	SolveID string `json:"solve_id,omitempty"`
}

func (s *Server) handleMinball(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var req MinballRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	size := len(req.Balls)
	if req.Size != nil {
		size = *req.Size
	}
	if size != len(req.Balls) {
		httputil.BadRequest(w, fmt.Sprintf("%v: size %d, %d balls", minball.ErrSizeMismatch, size, len(req.Balls)))
		return
	}
	if err := minball.Validate(req.Balls); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	start := s.clock.Now()
	result, stats, err := s.solve(req.Balls)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	elapsed := s.clock.Since(start)

	solve := &db.Solve{
		BallCount:  len(req.Balls),
		Center:     result.Center,
		Radius:     result.Radius,
		Pivots:     stats.Pivots,
		DurationUS: elapsed.Microseconds(),
		CreatedAt:  start.UnixNano(),
	}
	if err := s.solves.RecordSolve(solve); err != nil {
		monitoring.Logf("[api] failed to record solve: %v", err)
		solve.SolveID = ""
	}
	httputil.WriteJSONOK(w, MinballResponse{Ball2D: result, Pivots: stats.Pivots, SolveID: solve.SolveID})
}

// recoverInvalidSolution turns a panic carrying an invalid solution into
// *err so a single bad request does not take the server down. The solver
// has already logged the failure. Any other panic is re-raised. It must be
// deferred directly.
func recoverInvalidSolution(err *error) {
	if p := recover(); p != nil {
		var invalid *minball.InvalidSolutionError
		if e, ok := p.(error); ok && errors.As(e, &invalid) {
			*err = invalid
			return
		}
		panic(p)
	}
}

func (s *Server) solve(balls []minball.Ball2D) (result minball.Ball2D, stats minball.Stats, err error) {
	defer recoverInvalidSolution(&err)
	return s.solver.SolveStats(balls)
}

func (s *Server) handleListSolves(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		httputil.BadRequest(w, "invalid limit")
		return
	}
	solves, err := s.solves.ListSolves(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if solves == nil {
		solves = []*db.Solve{}
	}
	httputil.WriteJSONOK(w, solves)
}
