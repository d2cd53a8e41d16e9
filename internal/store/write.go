package store

import (
	"context"
	"fmt"

	"github.com/roach88/linkcheck/internal/checker"
)

// WriteReport records a check report under id in a single transaction.
// source names what was checked (a manifest path or "builtin").
func (s *Store) WriteReport(ctx context.Context, id, source string, rep *checker.Report) (*Run, error) {
	digest, err := rep.Digest()
	if err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	run := &Run{
		ID:           id,
		Source:       source,
		Outcome:      string(rep.Outcome),
		Status:       rep.Status(),
		Static:       rep.Static,
		Dynamic:      rep.Dynamic,
		FailureStage: string(rep.FailureStage),
		Digest:       digest,
	}
	if rep.Failure != nil {
		run.Failure = rep.Failure.Error()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("write report: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, source, outcome, status, static_result, dynamic_result, failure_stage, failure, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Source,
		run.Outcome,
		run.Status,
		run.Static,
		run.Dynamic,
		run.FailureStage,
		run.Failure,
		run.Digest,
	)
	if err != nil {
		return nil, fmt.Errorf("write report: insert run: %w", err)
	}
	run.Seq, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("write report: run seq: %w", err)
	}

	for _, step := range rep.Steps {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_steps
			(run_id, seq, phase, path, adapter, binding, identifier, value, stage, error, outcome, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			step.Seq,
			string(step.Phase),
			string(step.Path),
			step.Adapter,
			step.Binding,
			step.Identifier,
			step.Value,
			string(step.Stage),
			step.Error,
			string(step.Outcome),
			step.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("write report: insert step %d: %w", step.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("write report: commit: %w", err)
	}
	return run, nil
}
