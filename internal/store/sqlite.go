package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	total       INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	failed      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_files (
	id      TEXT PRIMARY KEY,
	run_id  TEXT NOT NULL REFERENCES runs(id),
	path    TEXT NOT NULL,
	status  TEXT NOT NULL,
	message TEXT
);

CREATE INDEX IF NOT EXISTS idx_run_files_run_id ON run_files(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordRun inserts a run and its file outcomes in one transaction. Missing
// run and file IDs are assigned.
func (s *SQLiteStore) RecordRun(ctx context.Context, run Run, files []FileRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, total, succeeded, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Total, run.Succeeded, run.Failed,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert run")
	}

	for _, f := range files {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_files (id, run_id, path, status, message) VALUES (?, ?, ?, ?, ?)`,
			f.ID, run.ID, f.Path, string(f.Status), f.Message,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert run file %s", f.Path)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit run")
}

// ListRuns returns runs newest first, up to limit (0 = default 50).
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, total, succeeded, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Total, &r.Succeeded, &r.Failed); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// GetRun returns one run and its file outcomes. sql.ErrNoRows surfaces when
// the id is unknown.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, []FileRecord, error) {
	var r Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, total, succeeded, failed FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Total, &r.Succeeded, &r.Failed)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, path, status, message FROM run_files WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "sqlite: get run files %s", id)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		var status string
		if err := rows.Scan(&f.ID, &f.RunID, &f.Path, &status, &f.Message); err != nil {
			return nil, nil, eris.Wrap(err, "sqlite: scan run file")
		}
		f.Status = FileStatus(status)
		files = append(files, f)
	}
	return &r, files, eris.Wrap(rows.Err(), "sqlite: iterate run files")
}
