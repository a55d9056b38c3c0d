// Package storage keeps a history of restore nominations in SQLite, so
// repeated runs can tell whether a freshly aggregated nomination actually
// differs from the last one submitted for a project.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/renomhq/renom/pkg/restore"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS nominations (
  id                         INTEGER PRIMARY KEY,
  project_path               TEXT NOT NULL,
  base_intermediate_path     TEXT,
  original_target_frameworks TEXT,
  frameworks                 TEXT NOT NULL,
  fingerprint                TEXT NOT NULL,
  payload                    TEXT NOT NULL,
  created_at                 DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_nominations_project ON nominations(project_path, id);
CREATE TABLE IF NOT EXISTS nomination_changes (
  id           INTEGER PRIMARY KEY,
  occurred_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  project_path TEXT NOT NULL,
  change_type  TEXT NOT NULL CHECK (change_type IN ('added','updated')),
  fingerprint  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON nomination_changes(occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Fingerprint hashes a nomination payload. Payload JSON is order-stable
// (property bags marshal in insertion order), so identical aggregation
// results always hash identically.
func Fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// RecordNomination stores a nomination if it differs from the latest one
// recorded for the project. It returns the resulting change, or nil when the
// nomination is identical to the stored one and nothing was written.
func (d *DB) RecordNomination(ctx context.Context, projectPath string, info *restore.RestoreInfo) (*Change, error) {
	payload, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}
	fingerprint := Fingerprint(payload)

	latest, err := d.LatestNomination(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Fingerprint == fingerprint {
		return nil, nil
	}

	changeType := "added"
	if latest != nil {
		changeType = "updated"
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO nominations(project_path, base_intermediate_path, original_target_frameworks, frameworks, fingerprint, payload) VALUES(?,?,?,?,?,?)`,
		projectPath, info.BaseIntermediatePath, info.OriginalTargetFrameworks, info.FrameworksLabel(), fingerprint, string(payload))
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO nomination_changes(project_path, change_type, fingerprint) VALUES(?,?,?)`,
		projectPath, changeType, fingerprint)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &Change{
		OccurredAt:  time.Now().UTC(),
		ProjectPath: projectPath,
		ChangeType:  changeType,
		Fingerprint: fingerprint,
	}, nil
}

// LatestNomination returns the most recent nomination for a project, or nil
// when none has been recorded.
func (d *DB) LatestNomination(ctx context.Context, projectPath string) (*Nomination, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, project_path, COALESCE(base_intermediate_path,''), COALESCE(original_target_frameworks,''), frameworks, fingerprint, payload, created_at
		 FROM nominations WHERE project_path = ? ORDER BY id DESC LIMIT 1`, projectPath)

	var n Nomination
	err := row.Scan(&n.ID, &n.ProjectPath, &n.BaseIntermediatePath, &n.OriginalTargetFrameworks, &n.Frameworks, &n.Fingerprint, &n.Payload, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNominations returns recent nominations, newest first, optionally
// filtered by project path.
func (d *DB) ListNominations(ctx context.Context, projectPath string, limit int) ([]Nomination, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, project_path, COALESCE(base_intermediate_path,''), COALESCE(original_target_frameworks,''), frameworks, fingerprint, payload, created_at
		FROM nominations`
	args := []any{}
	if projectPath != "" {
		query += " WHERE project_path = ?"
		args = append(args, projectPath)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Nomination
	for rows.Next() {
		var n Nomination
		if err := rows.Scan(&n.ID, &n.ProjectPath, &n.BaseIntermediatePath, &n.OriginalTargetFrameworks, &n.Frameworks, &n.Fingerprint, &n.Payload, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListRecentChanges returns the latest nomination changes, newest first.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT occurred_at, project_path, change_type, fingerprint FROM nomination_changes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		if err := rows.Scan(&c.OccurredAt, &c.ProjectPath, &c.ChangeType, &c.Fingerprint); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetStats returns database-wide counters.
func (d *DB) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	row := d.sql.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM nominations),
		        (SELECT COUNT(DISTINCT project_path) FROM nominations),
		        (SELECT COUNT(*) FROM nomination_changes)`)
	if err := row.Scan(&s.Nominations, &s.Projects, &s.Changes); err != nil {
		return Stats{}, err
	}
	return s, nil
}
