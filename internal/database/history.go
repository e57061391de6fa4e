package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/nixlicense/internal/model"
	"github.com/ubuntu/decorate"
)

// FileName is the database file created inside the database directory.
const FileName = "nixlicense.db"

// HistoryDB stores report runs and the license tables they produced.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("database not found at %s (run a report with --history first)", dbPath)
			}
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	PRAGMA foreign_keys = ON;

	-- One row per report run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT NOT NULL UNIQUE,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		started_at TEXT NOT NULL,
		lines INTEGER NOT NULL DEFAULT 0,
		invalid_lines INTEGER NOT NULL DEFAULT 0,
		written INTEGER NOT NULL DEFAULT 0,
		dropped INTEGER NOT NULL DEFAULT 0
	);

	-- The license table of each run, in output order
	CREATE TABLE IF NOT EXISTS packages (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		full_name TEXT NOT NULL,
		short_name TEXT NOT NULL,
		spdx_id TEXT NOT NULL,
		url TEXT NOT NULL,
		deprecated INTEGER NOT NULL,
		free INTEGER NOT NULL,
		redistributable INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_packages_name ON packages(name);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Run is a recorded report run.
type Run struct {
	// ID is the database identifier, increasing with every run.
	ID int64 `json:"id"`

	// UUID identifies the run across databases.
	UUID string `json:"uuid"`

	// Input is the identifier list path.
	Input string `json:"input"`

	// Output is the license table path.
	Output string `json:"output"`

	// StartedAt is when the run began, in UTC.
	StartedAt time.Time `json:"startedAt"`

	// Lines is the number of identifiers processed.
	Lines int `json:"lines"`

	// InvalidLines is the number of lines skipped for invalid encoding.
	InvalidLines int `json:"invalidLines"`

	// Written is the number of rows in the license table.
	Written int `json:"written"`

	// Dropped is the number of identifiers without a usable license.
	Dropped int `json:"dropped"`
}

// SaveRun stores run and its license table in one transaction and sets
// run.ID. run.Written is set to len(pkgs).
func (h *HistoryDB) SaveRun(ctx context.Context, run *Run, pkgs []model.Pkg) (err error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	run.Written = len(pkgs)
	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (uuid, input, output, started_at, lines, invalid_lines, written, dropped)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.UUID,
		run.Input,
		run.Output,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Lines,
		run.InvalidLines,
		run.Written,
		run.Dropped,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO packages (run_id, position, name, full_name, short_name, spdx_id, url, deprecated, free, redistributable)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare package insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range pkgs {
		l := p.License
		if _, err = stmt.ExecContext(ctx,
			runID, i, p.Name,
			l.FullName, l.ShortName, l.SPDXID, l.URL,
			l.Deprecated, l.Free, l.Redistributable,
		); err != nil {
			return fmt.Errorf("failed to insert package %q: %w", p.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = runID
	return nil
}

// ListRuns returns recorded runs, newest first. A limit of zero or less
// returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
	SELECT id, uuid, input, output, started_at, lines, invalid_lines, written, dropped
	FROM runs
	ORDER BY id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRunByID retrieves a run by its database ID.
// It returns ErrRunNotFound when no such run exists.
func (h *HistoryDB) GetRunByID(ctx context.Context, id int64) (*Run, error) {
	row := h.db.QueryRowContext(ctx, `
	SELECT id, uuid, input, output, started_at, lines, invalid_lines, written, dropped
	FROM runs
	WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return run, err
}

// GetPreviousRun returns the newest run recorded before the run with id.
// It returns ErrRunNotFound when there is none.
func (h *HistoryDB) GetPreviousRun(ctx context.Context, id int64) (*Run, error) {
	row := h.db.QueryRowContext(ctx, `
	SELECT id, uuid, input, output, started_at, lines, invalid_lines, written, dropped
	FROM runs
	WHERE id < ?
	ORDER BY id DESC
	LIMIT 1
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no run before %d", ErrRunNotFound, id)
	}
	return run, err
}

// GetRunPkgs returns the license table recorded for a run, in output order.
func (h *HistoryDB) GetRunPkgs(ctx context.Context, runID int64) (_ []model.Pkg, err error) {
	defer decorate.OnError(&err, "failed to load packages of run %d", runID)

	rows, err := h.db.QueryContext(ctx, `
	SELECT name, full_name, short_name, spdx_id, url, deprecated, free, redistributable
	FROM packages
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkgs []model.Pkg
	for rows.Next() {
		var p model.Pkg
		if err := rows.Scan(
			&p.Name,
			&p.License.FullName,
			&p.License.ShortName,
			&p.License.SPDXID,
			&p.License.URL,
			&p.License.Deprecated,
			&p.License.Free,
			&p.License.Redistributable,
		); err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}

	return pkgs, rows.Err()
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*Run, error) {
	var run Run
	var startedAt string

	err := s.Scan(
		&run.ID,
		&run.UUID,
		&run.Input,
		&run.Output,
		&startedAt,
		&run.Lines,
		&run.InvalidLines,
		&run.Written,
		&run.Dropped,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt = parseTimestamp(startedAt)
	return &run, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,      // written by SaveRun
	time.RFC3339,          // Full RFC3339 format
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05", // ISO 8601 without timezone
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
