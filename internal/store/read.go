package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/resolve"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// ListOptions filters ListRuns.
type ListOptions struct {
	// Outcome restricts results to one outcome when non-empty.
	Outcome string

	// Limit caps the number of runs returned, keeping the most recent.
	// Zero means no limit.
	Limit int
}

const runColumns = `seq, id, source, outcome, status, static_result, dynamic_result, failure_stage, failure, digest`

// ListRuns returns recorded runs ordered by seq ascending.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if opts.Outcome != "" {
		query += ` WHERE outcome = ?`
		args = append(args, opts.Outcome)
	}
	if opts.Limit > 0 {
		query = `SELECT * FROM (` + query + ` ORDER BY seq DESC LIMIT ?)`
		args = append(args, opts.Limit)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run with its steps.
func (s *Store) ReadRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	run.Steps, err = s.readSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// CountByOutcome returns the number of runs per outcome.
func (s *Store) CountByOutcome(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM runs GROUP BY outcome ORDER BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// readSteps returns the trace of a run ordered by seq.
func (s *Store) readSteps(ctx context.Context, runID string) ([]checker.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, phase, path, adapter, binding, identifier, value, stage, error, outcome, status
		FROM run_steps
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []checker.Step{}
	for rows.Next() {
		var (
			st                          checker.Step
			phase, path, stage, outcome string
		)
		if err := rows.Scan(&st.Seq, &phase, &path, &st.Adapter, &st.Binding, &st.Identifier,
			&st.Value, &stage, &st.Error, &outcome, &st.Status); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.Phase = checker.Phase(phase)
		st.Path = checker.Path(path)
		st.Stage = resolve.Stage(stage)
		st.Outcome = checker.Outcome(outcome)
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun decodes one row selected with runColumns.
func scanRun(row scanner) (*Run, error) {
	var run Run
	err := row.Scan(
		&run.Seq,
		&run.ID,
		&run.Source,
		&run.Outcome,
		&run.Status,
		&run.Static,
		&run.Dynamic,
		&run.FailureStage,
		&run.Failure,
		&run.Digest,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &run, nil
}
