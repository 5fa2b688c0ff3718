package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Solve records one minimum enclosing ball computation served by the API.
type Solve struct {
	SolveID    string     `json:"solve_id"`
	BallCount  int        `json:"ball_count"`
	Center     [2]float64 `json:"center"`
	Radius     float64    `json:"radius"`
	Pivots     int        `json:"pivots"`
	DurationUS int64      `json:"duration_us"`
	CreatedAt  int64      `json:"created_at"`
}

// SolveStore persists the solve log.
type SolveStore struct {
	db *sql.DB
}

// NewSolveStore creates a new SolveStore.
func NewSolveStore(db *sql.DB) *SolveStore {
	return &SolveStore{db: db}
}

// RecordSolve appends a solve to the log. If SolveID is empty, a UUID is generated.
func (s *SolveStore) RecordSolve(solve *Solve) error {
	if solve.SolveID == "" {
		solve.SolveID = uuid.New().String()
	}
	if solve.CreatedAt == 0 {
		solve.CreatedAt = time.Now().UnixNano()
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO minball_solves (solve_id, ball_count, center_x, center_y, radius, pivots, duration_us, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			solve.SolveID, solve.BallCount, solve.Center[0], solve.Center[1], solve.Radius,
			solve.Pivots, solve.DurationUS, solve.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert solve: %w", err)
		}
		return nil
	})
}

// ListSolves returns the most recent solves first.
func (s *SolveStore) ListSolves(limit int) ([]*Solve, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT solve_id, ball_count, center_x, center_y, radius, pivots, duration_us, created_at
		FROM minball_solves
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query solves: %w", err)
	}
	defer rows.Close()

	var solves []*Solve
	for rows.Next() {
		var sv Solve
		if err := rows.Scan(&sv.SolveID, &sv.BallCount, &sv.Center[0], &sv.Center[1], &sv.Radius,
			&sv.Pivots, &sv.DurationUS, &sv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan solve row: %w", err)
		}
		solves = append(solves, &sv)
	}
	return solves, rows.Err()
}
