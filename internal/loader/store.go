// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader persists merged applicant records. It owns the
// applicants table, its content-derived uniqueness key over
// (url, program, comments), and the idempotent insert/merge paths used
// by both the CLI load stage and the dashboard pull worker.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/gradstats/pkg/types"
)

// Store manages the applicants SQLite database.
type Store struct {
	db        *sql.DB
	cycleYear int
}

const defaultCycleYear = 2026

// Open opens or creates the applicants database at cfg.DatabasePath and
// ensures the schema exists.
func Open(cfg types.LoadConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DatabasePath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	cycleYear := cfg.CycleYear
	if cycleYear <= 0 {
		cycleYear = defaultCycleYear
	}

	s := &Store{db: db, cycleYear: cycleYear}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for read-only collaborators (the
// analysis queries).
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS applicants (
			p_id INTEGER PRIMARY KEY AUTOINCREMENT,
			program TEXT,
			comments TEXT,
			date_added TEXT,
			url TEXT,
			status TEXT,
			term TEXT,
			us_or_international TEXT,
			gpa REAL,
			gre REAL,
			gre_v REAL,
			gre_aw REAL,
			degree TEXT,
			llm_generated_program TEXT,
			llm_generated_university TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS applicants_sig_unique
			ON applicants (COALESCE(url, ''), COALESCE(program, ''), COALESCE(comments, ''))`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// EnsureIndex makes the table safe for repeated loads: duplicate rows
// that predate the unique index are removed (keeping the lowest p_id per
// duplicate group), then the index is (re)created. Safe to call
// repeatedly.
func (s *Store) EnsureIndex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM applicants
		WHERE p_id NOT IN (
			SELECT MIN(p_id)
			FROM applicants
			GROUP BY COALESCE(url, ''), COALESCE(program, ''), COALESCE(comments, '')
		)`)
	if err != nil {
		return fmt.Errorf("removing duplicate rows: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS applicants_sig_unique
		ON applicants (COALESCE(url, ''), COALESCE(program, ''), COALESCE(comments, ''))`)
	if err != nil {
		return fmt.Errorf("creating unique index: %w", err)
	}
	return nil
}

const insertSQL = `
	INSERT INTO applicants (
		program, comments, date_added, url,
		status, term, us_or_international,
		gpa, gre, gre_v, gre_aw,
		degree, llm_generated_program, llm_generated_university
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`

// InsertNormalized inserts extracted records, silently skipping any row
// whose (url, program, comments) key is already stored. Returns the
// number of rows actually inserted.
func (s *Store) InsertNormalized(ctx context.Context, records []types.NormalizedRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		res, err := stmt.ExecContext(ctx,
			rec.Program, rec.Comments, rec.DateAdded, rec.URL,
			rec.Status, rec.Term, rec.UsOrInternational,
			rec.GPA, rec.GRE, rec.GREV, rec.GREAW,
			rec.Degree, nil, nil,
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting record %v: %w", deref(rec.URL), err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("committing insert: %w", err)
	}
	return inserted, nil
}

// upsertLLMFields writes the LLM-normalized program/university onto the
// row matching the (url, program, comments) key. COALESCE(NULLIF(..))
// guards the stored values: an update never erases a non-empty value
// with an empty one.
func upsertLLMFields(ctx context.Context, tx *sql.Tx, key recordKey, llmProgram, llmUniversity *string) error {
	if llmProgram == nil && llmUniversity == nil {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE applicants
		SET llm_generated_program = COALESCE(NULLIF(?, ''), llm_generated_program),
		    llm_generated_university = COALESCE(NULLIF(?, ''), llm_generated_university)
		WHERE COALESCE(url, '') = ?
		  AND COALESCE(program, '') = ?
		  AND COALESCE(comments, '') = ?`,
		emptyIfNil(llmProgram), emptyIfNil(llmUniversity),
		key.url, key.program, key.comments,
	)
	if err != nil {
		return fmt.Errorf("updating LLM fields: %w", err)
	}
	return nil
}

// recordKey is the content-derived identity of a stored row, with nil
// fields folded to "" the same way the unique index folds them.
type recordKey struct {
	url, program, comments string
}

func keyOf(url, program, comments *string) recordKey {
	return recordKey{
		url:      emptyIfNil(url),
		program:  emptyIfNil(program),
		comments: emptyIfNil(comments),
	}
}

func emptyIfNil(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Count returns the number of stored applicant rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting applicants: %w", err)
	}
	return n, nil
}
