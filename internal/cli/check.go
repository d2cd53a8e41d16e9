package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	_ "github.com/roach88/linkcheck/internal/capability/runtimeonly"
	"github.com/roach88/linkcheck/internal/capability/stubs"
	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/harness"
	"github.com/roach88/linkcheck/internal/manifest"
	"github.com/roach88/linkcheck/internal/probe"
	"github.com/roach88/linkcheck/internal/resolve"
	"github.com/roach88/linkcheck/internal/store"
)

// SourceBuiltin names checks of the built-in probe libraries.
const SourceBuiltin = "builtin"

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Manifest   string
	RuntimeDir string
	Exclude    []string
	Database   string

	// IDGenerator names recorded runs. Defaults to UUIDv7.
	IDGenerator store.IDGenerator

	// Registry is the compiled-in resolver. Defaults to resolve.Default().
	Registry resolve.Resolver
}

// CheckResult is the output of the check command.
type CheckResult struct {
	Source       string         `json:"source"`
	Outcome      string         `json:"outcome"`
	Status       int            `json:"status"`
	Static       bool           `json:"static"`
	Dynamic      bool           `json:"dynamic"`
	FailureStage string         `json:"failure_stage,omitempty"`
	Failure      string         `json:"failure,omitempty"`
	Digest       string         `json:"digest"`
	RunID        string         `json:"run_id,omitempty"`
	Steps        []checker.Step `json:"steps,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare static and dynamic resolution",
		Long: `Evaluate every adapter through both resolution paths and classify the result.

Without --manifest the built-in libraries LibraryUsingWanted and
LibraryUsingUnwanted are checked. --exclude hides identifiers from the
dynamic path, as if the build had dropped the packages providing them.

Exit codes:
  0  - CONSISTENT_TRUE
  1  - CONSISTENT_FALSE
  2  - Command error (invalid manifest, database error)
  17 - INCONSISTENT
  42 - DYNAMIC_RESOLUTION_FAILED

Examples:
  linkcheck check
  linkcheck check --exclude runtimeonly.UnwantedDependency
  linkcheck check --manifest ./probe.cue --runtime-dir ./plugins
  linkcheck check --db history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "CUE manifest file or directory (default: built-in libraries)")
	cmd.Flags().StringVar(&opts.RuntimeDir, "runtime-dir", "", "directory of interpreted capability sources")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "identifiers hidden from the dynamic path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.settings()
	logger := opts.logger(cmd)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	source := SourceBuiltin
	adapters := probe.Adapters()
	runtimeDir := opts.RuntimeDir
	if opts.Manifest != "" {
		m, err := manifest.Load(opts.Manifest)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load manifest", err)
		}
		adapters, err = m.Build(stubs.Catalog())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to build adapters", err)
		}
		source = opts.Manifest
		if runtimeDir == "" {
			runtimeDir = m.RuntimeDir
		}
	}
	if runtimeDir == "" {
		runtimeDir = cfg.RuntimeDir
	}

	registry := opts.Registry
	if registry == nil {
		registry = resolve.Default()
	}
	resolver, err := harness.BuildResolver(registry, runtimeDir, opts.Exclude)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build resolver", err)
	}

	logger.Debug("checking", "source", source, "adapters", len(adapters), "runtime_dir", runtimeDir, "exclude", opts.Exclude)
	rep := checker.New(resolver, checker.WithLogger(logger)).Check(adapters...)

	result, err := newCheckResult(source, rep)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest report", err)
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.DB
	}
	if dbPath != "" {
		runID, err := recordRun(ctx, opts, dbPath, source, rep)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = runID
		logger.Info("run recorded", "db", dbPath, "run_id", runID)
	}

	if err := outputCheck(formatter, result, rep); err != nil {
		return err
	}

	if result.Status != checker.StatusConsistentTrue {
		return NewExitError(result.Status, fmt.Sprintf("check outcome %s", result.Outcome))
	}
	return nil
}

func newCheckResult(source string, rep *checker.Report) (CheckResult, error) {
	digest, err := rep.Digest()
	if err != nil {
		return CheckResult{}, err
	}
	result := CheckResult{
		Source:       source,
		Outcome:      string(rep.Outcome),
		Status:       rep.Status(),
		Static:       rep.Static,
		Dynamic:      rep.Dynamic,
		FailureStage: string(rep.FailureStage),
		Digest:       digest,
		Steps:        rep.Steps,
	}
	if rep.Failure != nil {
		result.Failure = rep.Failure.Error()
	}
	return result, nil
}

func recordRun(ctx context.Context, opts *CheckOptions, dbPath, source string, rep *checker.Report) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	gen := opts.IDGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	run, err := st.WriteReport(ctx, gen.Generate(), source, rep)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func outputCheck(f *OutputFormatter, result CheckResult, rep *checker.Report) error {
	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Status != checker.StatusConsistentTrue {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    result.Outcome,
				Message: fmt.Sprintf("exit status %d", result.Status),
			}
			if result.Failure != "" {
				resp.Error.Details = result.Failure
			}
		}
		return f.encode(resp)
	}

	s := f.style()
	w := f.Writer
	fmt.Fprintf(w, "%s %s\n", s.header.Render("Source:"), result.Source)
	writeSteps(f, rep.Steps)
	fmt.Fprintf(w, "%s static=%t dynamic=%t\n", s.header.Render("Result:"), result.Static, result.Dynamic)
	fmt.Fprintf(w, "%s %s (status %d)\n", s.header.Render("Outcome:"), s.outcome(rep.Outcome), result.Status)
	if result.Failure != "" {
		fmt.Fprintf(w, "%s %s\n", s.header.Render("Failure:"), result.Failure)
	}
	if result.RunID != "" {
		fmt.Fprintf(w, "%s %s\n", s.header.Render("Run:"), result.RunID)
	}
	return nil
}

// writeSteps prints evaluation steps. Errors are only shown when verbose.
func writeSteps(f *OutputFormatter, steps []checker.Step) {
	s := f.style()
	for _, st := range steps {
		if st.Phase != checker.PhaseStaticEval && st.Phase != checker.PhaseDynamicEval {
			continue
		}
		line := fmt.Sprintf("  %-7s %s[%d] %s = %t", st.Path, st.Adapter, st.Binding, st.Identifier, st.Value)
		if st.Stage != "" {
			line += " " + s.fail.Render(string(st.Stage))
		}
		fmt.Fprintln(f.Writer, line)
		if f.Verbose && st.Error != "" {
			fmt.Fprintln(f.Writer, "    "+s.muted.Render(st.Error))
		}
	}
}
