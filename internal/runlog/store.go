// Package runlog records each run and its per-query answers in SQL, either
// PostgreSQL or SQLite.
package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/database"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/resilience"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		corpus_dir  TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		documents   INTEGER NOT NULL,
		vocabulary  INTEGER NOT NULL,
		total       INTEGER NOT NULL,
		answered    INTEGER NOT NULL,
		failed      INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		run_id     TEXT NOT NULL REFERENCES runs(id),
		line       INTEGER NOT NULL,
		query      TEXT NOT NULL,
		query_type TEXT NOT NULL,
		answer     TEXT NOT NULL,
		error_kind TEXT NOT NULL,
		latency_us BIGINT NOT NULL,
		PRIMARY KEY (run_id, line)
	)`,
}

// Run is one execution over a corpus and a query file.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	CorpusDir   string
	Fingerprint string
	Documents   int
	Vocabulary  int
	Total       int
	Answered    int
	Failed      int
}

// Answer is the stored outcome of one query line. ErrorKind is "ok" for
// answered lines.
type Answer struct {
	Line      int
	Query     string
	QueryType string
	Answer    string
	ErrorKind string
	LatencyUs int64
}

// Store persists runs.
type Store struct {
	db     *database.Client
	logger *slog.Logger
}

func NewStore(db *database.Client) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "runlog"),
	}
}

// Migrate creates the tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating runlog schema: %w", err)
		}
	}
	return nil
}

// SaveRun writes run and all its answers in one transaction, retrying the
// whole transaction on failure.
func (s *Store) SaveRun(ctx context.Context, run Run, answers []Answer) error {
	insertRun := s.db.Rebind(`INSERT INTO runs
		(id, started_at, finished_at, corpus_dir, fingerprint, documents, vocabulary, total, answered, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	insertAnswer := s.db.Rebind(`INSERT INTO answers
		(run_id, line, query, query_type, answer, error_kind, latency_us)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	err := resilience.Retry(ctx, "runlog-save", resilience.RetryConfig{}, func() error {
		return s.db.InTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, insertRun,
				run.ID,
				run.StartedAt.UTC().Format(time.RFC3339Nano),
				run.FinishedAt.UTC().Format(time.RFC3339Nano),
				run.CorpusDir,
				run.Fingerprint,
				run.Documents,
				run.Vocabulary,
				run.Total,
				run.Answered,
				run.Failed,
			); err != nil {
				return fmt.Errorf("inserting run %s: %w", run.ID, err)
			}
			stmt, err := tx.PrepareContext(ctx, insertAnswer)
			if err != nil {
				return fmt.Errorf("preparing answer insert: %w", err)
			}
			defer stmt.Close()
			for _, a := range answers {
				if _, err := stmt.ExecContext(ctx,
					run.ID, a.Line, a.Query, a.QueryType, a.Answer, a.ErrorKind, a.LatencyUs,
				); err != nil {
					return fmt.Errorf("inserting answer for line %d: %w", a.Line, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	s.logger.Info("run recorded",
		"run_id", run.ID,
		"answers", len(answers),
		"driver", s.db.Driver(),
	)
	return nil
}

// GetRun loads a run by id. It returns nil, nil when the run is unknown.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run               Run
		started, finished string
	)
	err := s.db.DB.QueryRowContext(ctx, s.db.Rebind(`SELECT
		id, started_at, finished_at, corpus_dir, fingerprint, documents, vocabulary, total, answered, failed
		FROM runs WHERE id = ?`), id,
	).Scan(
		&run.ID, &started, &finished, &run.CorpusDir, &run.Fingerprint,
		&run.Documents, &run.Vocabulary, &run.Total, &run.Answered, &run.Failed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parsing started_at of run %s: %w", id, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parsing finished_at of run %s: %w", id, err)
	}
	return &run, nil
}

// Answers returns the stored answers of a run ordered by line.
func (s *Store) Answers(ctx context.Context, runID string) ([]Answer, error) {
	rows, err := s.db.DB.QueryContext(ctx, s.db.Rebind(`SELECT
		line, query, query_type, answer, error_kind, latency_us
		FROM answers WHERE run_id = ? ORDER BY line`), runID)
	if err != nil {
		return nil, fmt.Errorf("listing answers of run %s: %w", runID, err)
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.Line, &a.Query, &a.QueryType, &a.Answer, &a.ErrorKind, &a.LatencyUs); err != nil {
			return nil, fmt.Errorf("scanning answer row: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// AnswersFromSummary converts executor outcomes into rows.
func AnswersFromSummary(summary *executor.Summary) []Answer {
	answers := make([]Answer, 0, len(summary.Outcomes))
	for _, o := range summary.Outcomes {
		a := Answer{
			Line:      o.Line,
			Query:     o.Query,
			ErrorKind: apperrors.Kind(o.Err),
			LatencyUs: o.Latency.Microseconds(),
		}
		if o.Answer != nil {
			a.QueryType = o.Answer.Type
			a.Answer = o.Answer.Line
		}
		answers = append(answers, a)
	}
	return answers
}
