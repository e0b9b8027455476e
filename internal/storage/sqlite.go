package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/vocabfix/internal/apperr"
	"github.com/starford/vocabfix/internal/checksum"
	"github.com/starford/vocabfix/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS words (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	english  TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	level    TEXT NOT NULL DEFAULT '',
	payload  TEXT NOT NULL,
	checksum TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_words_category ON words(category);

CREATE TABLE IF NOT EXISTS fix_runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	fixed       INTEGER NOT NULL DEFAULT 0,
	not_found   INTEGER NOT NULL DEFAULT 0,
	dry_run     INTEGER NOT NULL DEFAULT 0
);
`

// SQLite implements Provider on a words table. Each row stores the full
// record in payload; english, category and level are mirrored into columns
// for querying.
type SQLite struct {
	conn *sql.DB
	dsn  string

	// ids and checksums of the rows returned by the last Load, by position.
	ids       []int64
	checksums []string
}

// Verify *SQLite satisfies the storage interfaces at compile time.
var (
	_ Provider    = (*SQLite)(nil)
	_ RunRecorder = (*SQLite)(nil)
)

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn, dsn: dsn}, nil
}

// Location returns the database path.
func (s *SQLite) Location() string {
	return s.dsn
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Load returns every word row ordered by id.
func (s *SQLite) Load(ctx context.Context) ([]*models.Record, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, payload, checksum FROM words ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: load words: %w", err)
	}
	defer rows.Close()

	var (
		records   []*models.Record
		ids       []int64
		checksums []string
	)
	for rows.Next() {
		var (
			id      int64
			payload string
			cs      string
		)
		if err := rows.Scan(&id, &payload, &cs); err != nil {
			return nil, fmt.Errorf("storage: scan word: %w", err)
		}
		r := models.NewRecord()
		if err := r.UnmarshalJSON([]byte(payload)); err != nil {
			return nil, fmt.Errorf("storage: word %d: %w: %v", id, apperr.ErrMalformed, err)
		}
		records = append(records, r)
		ids = append(ids, id)
		checksums = append(checksums, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load words: %w", err)
	}

	s.ids, s.checksums = ids, checksums
	return records, nil
}

// Save writes records back over the rows of the last Load in one
// transaction. Rows whose payload is unchanged are skipped.
func (s *SQLite) Save(ctx context.Context, records []*models.Record) error {
	if len(records) != len(s.ids) {
		return fmt.Errorf("storage: %w: loaded %d, saving %d", apperr.ErrCountMismatch, len(s.ids), len(records))
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE words SET english = ?, category = ?, level = ?, payload = ?, checksum = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("storage: prepare update: %w", err)
	}
	defer stmt.Close()

	updated := make([]string, len(records))
	for i, r := range records {
		payload, err := r.MarshalJSON()
		if err != nil {
			return fmt.Errorf("storage: encode word %d: %w", s.ids[i], err)
		}
		cs := checksum.Sum(payload)
		updated[i] = cs
		if cs == s.checksums[i] {
			continue
		}
		english, category, level := columns(r)
		if _, err := stmt.ExecContext(ctx, english, category, level, string(payload), cs, s.ids[i]); err != nil {
			return fmt.Errorf("storage: update word %d: %w", s.ids[i], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	s.checksums = updated
	return nil
}

// Import appends records as new rows and returns how many were inserted.
func (s *SQLite) Import(ctx context.Context, records []*models.Record) (int, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO words (english, category, level, payload, checksum) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("storage: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		payload, err := r.MarshalJSON()
		if err != nil {
			return 0, fmt.Errorf("storage: encode record %d: %w", i, err)
		}
		english, category, level := columns(r)
		if _, err := stmt.ExecContext(ctx, english, category, level, string(payload), checksum.Sum(payload)); err != nil {
			return 0, fmt.Errorf("storage: insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: commit: %w", err)
	}
	return len(records), nil
}

// RecordRun stores the outcome of a correction pass.
func (s *SQLite) RecordRun(ctx context.Context, run Run) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO fix_runs (id, started_at, finished_at, fixed, not_found, dry_run)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Fixed, run.NotFound, run.DryRun)
	if err != nil {
		return fmt.Errorf("storage: record run: %w", err)
	}
	return nil
}

// Runs returns recorded runs, most recent first.
func (s *SQLite) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, started_at, finished_at, fixed, not_found, dry_run
		FROM fix_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Fixed, &r.NotFound, &r.DryRun); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func columns(r *models.Record) (english, category, level string) {
	english, _ = r.String(models.FieldEnglish)
	category, _ = r.String(models.FieldCategory)
	level, _ = r.String(models.FieldLevel)
	return english, category, level
}
