// Package db persists cleanup runs and their node merges to sqlite.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gantry-data/strukt/internal/cleanup"
)

type DB struct {
	*sql.DB

	path string
}

// NewDB opens (or creates) the sqlite database at path and applies any
// pending migrations.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db := &DB{DB: sqlDB, path: path}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Run is one recorded cleanup run.
type Run struct {
	RunID         string    `json:"run_id"`
	ModelName     string    `json:"model_name"`
	Tolerance     float64   `json:"tolerance"`
	NodesBefore   int       `json:"nodes_before"`
	NodesAfter    int       `json:"nodes_after"`
	MembersBefore int       `json:"members_before"`
	MembersAfter  int       `json:"members_after"`
	MergeCount    int       `json:"merge_count"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// RecordRun stores a cleanup report and all of its merges in one
// transaction.
func (db *DB) RecordRun(report *cleanup.Report) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO cleanup_runs (
			run_id, model_name, tolerance,
			nodes_before, nodes_after, members_before, members_after,
			started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.ModelName, report.Tolerance,
		report.NodesBefore, report.NodesAfter,
		report.MembersBefore, report.MembersAfter,
		report.StartedAt.UnixNano(), report.FinishedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cleanup run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO node_merges (
			run_id, survivor_id, merged_id,
			survivor_x, survivor_y, survivor_z,
			offset_x, offset_y, offset_z, distance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare merge insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range report.Merges {
		if _, err := stmt.Exec(
			report.RunID, m.SurvivorID, m.MergedID,
			m.SurvivorX, m.SurvivorY, m.SurvivorZ,
			m.OffsetX, m.OffsetY, m.OffsetZ, m.Distance,
		); err != nil {
			return fmt.Errorf("failed to insert merge for run %s: %w", report.RunID, err)
		}
	}
	return tx.Commit()
}

// Runs returns the most recent cleanup runs, newest first.
func (db *DB) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`
		SELECT r.run_id, r.model_name, r.tolerance,
		       r.nodes_before, r.nodes_after, r.members_before, r.members_after,
		       r.started_at, r.finished_at,
		       (SELECT COUNT(*) FROM node_merges m WHERE m.run_id = r.run_id)
		FROM cleanup_runs r
		ORDER BY r.started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(
			&r.RunID, &r.ModelName, &r.Tolerance,
			&r.NodesBefore, &r.NodesAfter, &r.MembersBefore, &r.MembersAfter,
			&started, &finished, &r.MergeCount,
		); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(0, started)
		r.FinishedAt = time.Unix(0, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// MergesForRun returns every recorded merge for a run, or an empty slice
// when the run is unknown.
func (db *DB) MergesForRun(runID string) ([]cleanup.Merge, error) {
	rows, err := db.Query(`
		SELECT survivor_id, merged_id,
		       survivor_x, survivor_y, survivor_z,
		       offset_x, offset_y, offset_z, distance
		FROM node_merges
		WHERE run_id = ?
		ORDER BY survivor_id, merged_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var merges []cleanup.Merge
	for rows.Next() {
		var m cleanup.Merge
		if err := rows.Scan(
			&m.SurvivorID, &m.MergedID,
			&m.SurvivorX, &m.SurvivorY, &m.SurvivorZ,
			&m.OffsetX, &m.OffsetY, &m.OffsetZ, &m.Distance,
		); err != nil {
			return nil, err
		}
		merges = append(merges, m)
	}
	return merges, rows.Err()
}

// HasRun reports whether a run ID exists.
func (db *DB) HasRun(runID string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM cleanup_runs WHERE run_id = ?`, runID).Scan(&n)
	return n > 0, err
}
