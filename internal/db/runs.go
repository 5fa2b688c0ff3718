package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/minball/internal/geometry"
)

// ErrNotFound is returned when a run or solve does not exist.
var ErrNotFound = errors.New("not found")

// Run is one discretization of a tunnel.
type Run struct {
	RunID       string          `json:"run_id"`
	Source      string          `json:"source"`
	ParamsJSON  json.RawMessage `json:"params_json,omitempty"`
	SphereCount int             `json:"sphere_count"`
	DiskCount   int             `json:"disk_count"`
	DurationMs  float64         `json:"duration_ms"`
	CreatedAt   int64           `json:"created_at"`
}

// RunStore persists runs and their disks.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// CreateRun persists a new run. If RunID is empty, a UUID is generated.
func (s *RunStore) CreateRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	var params interface{}
	if len(run.ParamsJSON) > 0 {
		params = string(run.ParamsJSON)
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO runs (run_id, source, params_json, sphere_count, disk_count, duration_ms, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Source, params, run.SphereCount, run.DiskCount, run.DurationMs, run.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return nil
	})
}

// InsertDisks replaces the disks of a run in one transaction and updates
// its disk count.
func (s *RunStore) InsertDisks(runID string, disks []geometry.Disk) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback()

		res, err := tx.Exec(`UPDATE runs SET disk_count = ? WHERE run_id = ?`, len(disks), runID)
		if err != nil {
			return fmt.Errorf("update run: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		} else if n == 0 {
			return fmt.Errorf("run %s: %w", runID, ErrNotFound)
		}

		if _, err := tx.Exec(`DELETE FROM run_disks WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("clear disks: %w", err)
		}
		stmt, err := tx.Prepare(`
			INSERT INTO run_disks (run_id, seq, cx, cy, cz, nx, ny, nz, radius)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()
		for i, d := range disks {
			if _, err := stmt.Exec(runID, i,
				d.Center.X, d.Center.Y, d.Center.Z,
				d.Normal.X, d.Normal.Y, d.Normal.Z,
				d.Radius); err != nil {
				return fmt.Errorf("insert disk %d: %w", i, err)
			}
		}
		return tx.Commit()
	})
}

const runColumns = `run_id, source, params_json, sphere_count, disk_count, duration_ms, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var params sql.NullString
	if err := row.Scan(&r.RunID, &r.Source, &params, &r.SphereCount, &r.DiskCount, &r.DurationMs, &r.CreatedAt); err != nil {
		return nil, err
	}
	if params.Valid {
		r.ParamsJSON = json.RawMessage(params.String)
	}
	return &r, nil
}

// GetRun returns a single run by ID.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *RunStore) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListDisks returns the disks of a run in curve order.
func (s *RunStore) ListDisks(runID string) ([]geometry.Disk, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT cx, cy, cz, nx, ny, nz, radius
		FROM run_disks
		WHERE run_id = ?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query disks: %w", err)
	}
	defer rows.Close()

	disks := []geometry.Disk{}
	for rows.Next() {
		var c, n r3.Vec
		var radius float64
		if err := rows.Scan(&c.X, &c.Y, &c.Z, &n.X, &n.Y, &n.Z, &radius); err != nil {
			return nil, fmt.Errorf("scan disk row: %w", err)
		}
		disks = append(disks, geometry.Disk{Center: c, Normal: n, Radius: radius})
	}
	return disks, rows.Err()
}

// DeleteRun removes a run and its disks.
func (s *RunStore) DeleteRun(runID string) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM run_disks WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("delete disks: %w", err)
		}
		result, err := tx.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("run %s: %w", runID, ErrNotFound)
		}
		return tx.Commit()
	})
}
