// Package runlog keeps a history of fill runs in a local SQLite database,
// so the shell can show what was solved, with which word list, and how much
// search it took.
package runlog

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/castell9/gofai/filler"
)

type Outcome string

const (
	OutcomeFilled  Outcome = "filled"
	OutcomeNoFill  Outcome = "no-fill"
	OutcomeAborted Outcome = "aborted"
)

// OutcomeForError maps a Solve error to the outcome recorded for the run.
func OutcomeForError(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeFilled
	case errors.Is(err, filler.ErrAborted):
		return OutcomeAborted
	default:
		return OutcomeNoFill
	}
}

// A Run is one fill attempt. Fingerprint identifies the exact word list
// contents, so a run can be told apart from one made with an edited list of
// the same name.
type Run struct {
	ID          int64
	StartedAt   time.Time
	Grid        string
	WordList    string
	Fingerprint uint64
	Threads     int
	Nodes       uint64
	Elapsed     time.Duration
	Outcome     Outcome
	Fill        string
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at INTEGER NOT NULL,
	grid TEXT NOT NULL,
	wordlist TEXT NOT NULL,
	wordlist_fingerprint TEXT NOT NULL,
	threads INTEGER NOT NULL,
	nodes INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	outcome TEXT NOT NULL,
	fill TEXT NOT NULL
);`

// Open opens or creates the run log at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Msg("opened run log")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run and returns its id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, grid, wordlist, wordlist_fingerprint,
			threads, nodes, elapsed_ms, outcome, fill)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UnixMilli(),
		run.Grid,
		run.WordList,
		strconv.FormatUint(run.Fingerprint, 16),
		run.Threads,
		int64(run.Nodes),
		run.Elapsed.Milliseconds(),
		string(run.Outcome),
		run.Fill,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, grid, wordlist, wordlist_fingerprint,
			threads, nodes, elapsed_ms, outcome, fill
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run         Run
			startedMs   int64
			fingerprint string
			nodes       int64
			elapsedMs   int64
			outcome     string
		)
		err = rows.Scan(&run.ID, &startedMs, &run.Grid, &run.WordList,
			&fingerprint, &run.Threads, &nodes, &elapsedMs, &outcome, &run.Fill)
		if err != nil {
			return nil, err
		}
		run.StartedAt = time.UnixMilli(startedMs)
		run.Fingerprint, err = strconv.ParseUint(fingerprint, 16, 64)
		if err != nil {
			return nil, err
		}
		run.Nodes = uint64(nodes)
		run.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		run.Outcome = Outcome(outcome)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
