// Package store persists the final result of a run (a run summary and every
// document's top-N terms) to PostgreSQL or SQLite. Intermediate pipeline
// state is never stored.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/database"
)

// Store requires two tables, created by Migrate:
//
//	CREATE TABLE term_runs (
//	    id          TEXT PRIMARY KEY,
//	    started_at  TEXT NOT NULL,
//	    finished_at TEXT NOT NULL,
//	    documents   INTEGER NOT NULL,
//	    vocabulary  INTEGER NOT NULL
//	);
//	CREATE TABLE term_scores (
//	    run_id   TEXT NOT NULL REFERENCES term_runs(id),
//	    document TEXT NOT NULL,
//	    ordinal  INTEGER NOT NULL,
//	    term     TEXT NOT NULL,
//	    score    DOUBLE PRECISION NOT NULL,
//	    PRIMARY KEY (run_id, document, ordinal)
//	);
//
// Timestamps are RFC 3339 text so the schema is identical on both drivers.
type Store struct {
	db     *database.Client
	logger *slog.Logger
}

// Run is the persisted summary of one pipeline run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  int
	Vocabulary int
	Results    []DocumentTerms
}

// DocumentTerms is one document's ranked terms.
type DocumentTerms struct {
	Document string
	Terms    []ranker.ScoredTerm
}

func New(db *database.Client) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "result-store"),
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS term_runs (
		id          TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		documents   INTEGER NOT NULL,
		vocabulary  INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS term_scores (
		run_id   TEXT NOT NULL REFERENCES term_runs(id),
		document TEXT NOT NULL,
		ordinal  INTEGER NOT NULL,
		term     TEXT NOT NULL,
		score    DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, document, ordinal)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_term_scores_term ON term_scores(term)`,
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// SaveRun writes the run summary and all ranked terms in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	p := s.db.Dialect.Placeholder
	insertRun := fmt.Sprintf(
		`INSERT INTO term_runs (id, started_at, finished_at, documents, vocabulary) VALUES (%s, %s, %s, %s, %s)`,
		p(1), p(2), p(3), p(4), p(5),
	)
	insertScore := fmt.Sprintf(
		`INSERT INTO term_scores (run_id, document, ordinal, term, score) VALUES (%s, %s, %s, %s, %s)`,
		p(1), p(2), p(3), p(4), p(5),
	)

	var rows int
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertRun,
			run.ID,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.FinishedAt.UTC().Format(time.RFC3339Nano),
			run.Documents,
			run.Vocabulary,
		); err != nil {
			return fmt.Errorf("inserting run %s: %w", run.ID, err)
		}
		stmt, err := tx.PrepareContext(ctx, insertScore)
		if err != nil {
			return fmt.Errorf("preparing score insert: %w", err)
		}
		defer stmt.Close()
		for _, doc := range run.Results {
			for rank, term := range doc.Terms {
				if _, err := stmt.ExecContext(ctx, run.ID, doc.Document, rank+1, term.Term, term.Score); err != nil {
					return fmt.Errorf("inserting score for %s: %w", doc.Document, err)
				}
				rows++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	s.logger.Info("run saved",
		"run_id", run.ID,
		"documents", run.Documents,
		"score_rows", rows,
	)
	return nil
}

// GetRun loads a run summary without its terms. Returns nil, nil if the run
// does not exist.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	query := fmt.Sprintf(
		`SELECT id, started_at, finished_at, documents, vocabulary FROM term_runs WHERE id = %s`,
		s.db.Dialect.Placeholder(1),
	)
	var run Run
	var started, finished string
	err := s.db.DB.QueryRowContext(ctx, query, runID).Scan(&run.ID, &started, &finished, &run.Documents, &run.Vocabulary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	return &run, nil
}

// TopTerms returns a document's ranked terms for a run, best first.
func (s *Store) TopTerms(ctx context.Context, runID string, document string) ([]ranker.ScoredTerm, error) {
	p := s.db.Dialect.Placeholder
	query := fmt.Sprintf(
		`SELECT term, score FROM term_scores WHERE run_id = %s AND document = %s ORDER BY ordinal`,
		p(1), p(2),
	)
	rows, err := s.db.DB.QueryContext(ctx, query, runID, document)
	if err != nil {
		return nil, fmt.Errorf("querying top terms: %w", err)
	}
	defer rows.Close()

	var terms []ranker.ScoredTerm
	for rows.Next() {
		var st ranker.ScoredTerm
		if err := rows.Scan(&st.Term, &st.Score); err != nil {
			return nil, fmt.Errorf("scanning term row: %w", err)
		}
		terms = append(terms, st)
	}
	return terms, rows.Err()
}

// Documents lists the documents stored for a run in ascending order.
func (s *Store) Documents(ctx context.Context, runID string) ([]string, error) {
	query := `SELECT DISTINCT document FROM term_scores WHERE run_id = ` + s.db.Dialect.Placeholder(1) + ` ORDER BY document`
	rows, err := s.db.DB.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
