package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned by Get for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded tiling run.
type Run struct {
	RunID            string          `json:"run_id"`
	CreatedAt        int64           `json:"created_at"`
	TablePath        string          `json:"table_path"`
	OutputDir        string          `json:"output_dir"`
	Nb               int             `json:"nb"`
	Ndiv             int             `json:"ndiv"`
	Nax              int             `json:"nax"`
	Rtot             int             `json:"rtot"`
	Nrge             int             `json:"nrge"`
	OriginRadius     int             `json:"origin_radius"`
	ReferenceOffset  int             `json:"reference_offset"`
	RadiusConvention string          `json:"radius_convention"`
	NTay             int             `json:"ntay"`
	Tiles            int             `json:"tiles"`
	Colors           int             `json:"colors"`
	MeanArea         float64         `json:"mean_area"`
	StdArea          float64         `json:"std_area"`
	Efficiency       float64         `json:"efficiency"`
	CentersJSON      json.RawMessage `json:"centers_json"`
	StatsJSON        json.RawMessage `json:"stats_json,omitempty"`
}

// Created returns CreatedAt as a time.
func (r *Run) Created() time.Time {
	return time.Unix(0, r.CreatedAt)
}

// RunStore persists tiling runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore on an open registry.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB}
}

const runColumns = `
	run_id, created_at, table_path, output_dir, nb, ndiv, nax,
	rtot, nrge, origin_radius, reference_offset, radius_convention, ntay,
	tiles, colors, mean_area, std_area, efficiency, centers_json, stats_json`

// Insert persists a run. If RunID is empty, a UUID is generated; if
// CreatedAt is zero, the current time is used.
func (s *RunStore) Insert(r *Run) error {
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UnixNano()
	}
	if len(r.CentersJSON) == 0 {
		return fmt.Errorf("run %s: centers_json is required", r.RunID)
	}

	var stats interface{}
	if len(r.StatsJSON) > 0 {
		stats = string(r.StatsJSON)
	}

	_, err := s.db.Exec(`INSERT INTO tiling_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt, r.TablePath, r.OutputDir, r.Nb, r.Ndiv, r.Nax,
		r.Rtot, r.Nrge, r.OriginRadius, r.ReferenceOffset, r.RadiusConvention, r.NTay,
		r.Tiles, r.Colors, r.MeanArea, r.StdArea, r.Efficiency, string(r.CentersJSON), stats,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *RunStore) List(limit int) ([]*Run, error) {
	q := `SELECT ` + runColumns + ` FROM tiling_runs ORDER BY created_at DESC, run_id`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns a single run by id.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM tiling_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return r, err
}

// Count returns the number of recorded runs.
func (s *RunStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tiling_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var centers string
	var stats sql.NullString
	err := sc.Scan(
		&r.RunID, &r.CreatedAt, &r.TablePath, &r.OutputDir, &r.Nb, &r.Ndiv, &r.Nax,
		&r.Rtot, &r.Nrge, &r.OriginRadius, &r.ReferenceOffset, &r.RadiusConvention, &r.NTay,
		&r.Tiles, &r.Colors, &r.MeanArea, &r.StdArea, &r.Efficiency, &centers, &stats,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run row: %w", err)
	}
	r.CentersJSON = json.RawMessage(centers)
	if stats.Valid {
		r.StatsJSON = json.RawMessage(stats.String)
	}
	return &r, nil
}
