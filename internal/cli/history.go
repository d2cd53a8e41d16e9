package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
	Outcome  string
	Limit    int
}

// HistoryResult is the output of the history command when listing runs.
type HistoryResult struct {
	Runs   []store.Run    `json:"runs"`
	Counts map[string]int `json:"counts"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded checks",
		Long: `List checks recorded with check --db, oldest first.

With --run, show one run including its full trace.

Examples:
  linkcheck history --db history.db
  linkcheck history --db history.db --outcome INCONSISTENT --limit 10
  linkcheck history --db history.db --run 0190a4c2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run with its trace")
	cmd.Flags().StringVar(&opts.Outcome, "outcome", "", "only runs with this outcome")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "only the most recent N runs (0 = all)")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.settings().DB
	}
	if dbPath == "" {
		return NewExitError(ExitCommandError, "--db is required (or set db in .linkcheck.yaml)")
	}
	// Opening creates the file; history must not.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}
	if opts.Outcome != "" {
		if _, err := checker.ParseOutcome(opts.Outcome); err != nil {
			return WrapExitError(ExitCommandError, "invalid --outcome", err)
		}
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must be non-negative")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			if outErr := formatter.Error(ErrCodeNotFound, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitFailure, "run not found", err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		return outputRun(formatter, run)
	}

	runs, err := st.ListRuns(ctx, store.ListOptions{Outcome: opts.Outcome, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	counts, err := st.CountByOutcome(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count runs", err)
	}
	return outputHistory(formatter, HistoryResult{Runs: runs, Counts: counts})
}

func outputHistory(f *OutputFormatter, result HistoryResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	w := f.Writer
	s := f.style()
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range result.Runs {
		fmt.Fprintf(w, "%4d  %s  %s  %s\n",
			run.Seq, s.muted.Render(run.ID), s.outcome(checker.Outcome(run.Outcome)), run.Source)
	}
	fmt.Fprintln(w)
	for _, o := range checker.Outcomes {
		if n := result.Counts[string(o)]; n > 0 {
			fmt.Fprintf(w, "%s: %d\n", o, n)
		}
	}
	return nil
}

func outputRun(f *OutputFormatter, run *store.Run) error {
	if f.Format == "json" {
		return f.Success(run)
	}

	w := f.Writer
	s := f.style()
	fmt.Fprintf(w, "%s %s (seq %d)\n", s.header.Render("Run:"), run.ID, run.Seq)
	fmt.Fprintf(w, "%s %s\n", s.header.Render("Source:"), run.Source)
	writeSteps(f, run.Steps)
	fmt.Fprintf(w, "%s static=%t dynamic=%t\n", s.header.Render("Result:"), run.Static, run.Dynamic)
	fmt.Fprintf(w, "%s %s (status %d)\n", s.header.Render("Outcome:"), s.outcome(checker.Outcome(run.Outcome)), run.Status)
	if run.Failure != "" {
		fmt.Fprintf(w, "%s %s\n", s.header.Render("Failure:"), run.Failure)
	}
	fmt.Fprintf(w, "%s %s\n", s.header.Render("Digest:"), run.Digest)
	return nil
}
