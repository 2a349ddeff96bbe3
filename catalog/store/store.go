// Package store provides SQLite-based persistence for particle catalogs.
//
// Catalogs are stored per run: a runs table carries identity and metadata,
// a particles table carries positions and weights. Runs are immutable once
// written; re-saving under the same name creates a new run and loads return
// the most recent one.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/michaelJwilson/meshkit/catalog"
)

// Errors returned by the store.
var (
	ErrRunNotFound = errors.New("store: run not found")
	ErrNilCatalog  = errors.New("store: nil catalog")
)

// DB wraps a SQLite connection for catalog persistence.
type DB struct {
	conn *sqlx.DB
	log  *slog.Logger
}

// Open opens or creates a SQLite database at the given path.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	db := &DB{conn: conn, log: logger}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		particles INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name, created_at);

	CREATE TABLE IF NOT EXISTS particles (
		run_id TEXT NOT NULL REFERENCES runs(id),
		idx INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		w REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Run describes a stored catalog run.
type Run struct {
	ID        uuid.UUID `db:"-"`
	RawID     string    `db:"id"`
	Name      string    `db:"name"`
	Particles int       `db:"particles"`
	CreatedAt int64     `db:"created_at"`
}

// SaveCatalog stores cat under name and returns the new run's identifier.
func (db *DB) SaveCatalog(ctx context.Context, name string, cat catalog.Catalog) (uuid.UUID, error) {
	if cat == nil {
		return uuid.Nil, ErrNilCatalog
	}

	runID := uuid.New()
	started := time.Now()

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, name, particles, created_at) VALUES (?, ?, ?, ?)`,
		runID.String(), name, cat.Len(), started.UnixNano())
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: insert run: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO particles (run_id, idx, x, y, z, w) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < cat.Len(); i++ {
		p := cat.Position(i)

		_, err = stmt.ExecContext(ctx, runID.String(), i, p[0], p[1], p[2], cat.Weight(i))
		if err != nil {
			return uuid.Nil, fmt.Errorf("store: insert particle %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("store: commit: %w", err)
	}

	db.log.Info("catalog saved",
		"run", runID.String(),
		"name", name,
		"particles", cat.Len(),
		"elapsed", time.Since(started))

	return runID, nil
}

// LoadCatalog returns the most recently saved catalog under name.
func (db *DB) LoadCatalog(ctx context.Context, name string) (*catalog.ArrayCatalog, error) {
	var run Run

	err := db.conn.GetContext(ctx, &run,
		`SELECT id, name, particles, created_at FROM runs
		 WHERE name = ? ORDER BY created_at DESC, id DESC LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load run %q: %w", name, err)
	}

	return db.loadRun(ctx, run)
}

// LoadRun returns the catalog stored under the given run identifier.
func (db *DB) LoadRun(ctx context.Context, id uuid.UUID) (*catalog.ArrayCatalog, error) {
	var run Run

	err := db.conn.GetContext(ctx, &run,
		`SELECT id, name, particles, created_at FROM runs WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load run %s: %w", id, err)
	}

	return db.loadRun(ctx, run)
}

func (db *DB) loadRun(ctx context.Context, run Run) (*catalog.ArrayCatalog, error) {
	rows, err := db.conn.QueryxContext(ctx,
		`SELECT x, y, z, w FROM particles WHERE run_id = ? ORDER BY idx`, run.RawID)
	if err != nil {
		return nil, fmt.Errorf("store: query particles: %w", err)
	}
	defer rows.Close()

	positions := make([][3]float64, 0, run.Particles)
	weights := make([]float64, 0, run.Particles)

	for rows.Next() {
		var x, y, z, w float64
		if err := rows.Scan(&x, &y, &z, &w); err != nil {
			return nil, fmt.Errorf("store: scan particle: %w", err)
		}

		positions = append(positions, [3]float64{x, y, z})
		weights = append(weights, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate particles: %w", err)
	}

	return catalog.NewArray(positions, weights)
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	var runs []Run

	err := db.conn.SelectContext(ctx, &runs,
		`SELECT id, name, particles, created_at FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}

	for i := range runs {
		parsed, err := uuid.Parse(runs[i].RawID)
		if err != nil {
			return nil, fmt.Errorf("store: malformed run id %q: %w", runs[i].RawID, err)
		}

		runs[i].ID = parsed
	}

	return runs, nil
}
