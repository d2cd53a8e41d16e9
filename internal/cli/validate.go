package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/linkcheck/internal/capability/stubs"
	"github.com/roach88/linkcheck/internal/manifest"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool             `json:"valid"`
	RuntimeDir string           `json:"runtime_dir,omitempty"`
	Adapters   []AdapterSummary `json:"adapters,omitempty"`
}

// AdapterSummary describes one declared adapter.
type AdapterSummary struct {
	Name    string   `json:"name"`
	Op      string   `json:"op,omitempty"`
	Static  []string `json:"static"`
	Dynamic []string `json:"dynamic"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Validate a capability manifest without running a check",
		Long: `Validate a CUE capability manifest.

Checks the manifest against its schema and confirms that every static
identifier is linked into this binary. Dynamic identifiers are not
resolved; that is what check does.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	m, err := manifest.Load(path)
	if err == nil {
		formatter.VerboseLog("Loaded %d adapter(s) from %s", len(m.Adapters), path)
		_, err = m.Build(stubs.Catalog())
	}
	if err != nil {
		code := ErrCodeGeneric
		var me *manifest.Error
		if errors.As(err, &me) {
			code = me.Code
		}
		if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
			return outErr
		}
		exit := ExitFailure
		if code == manifest.ErrCodeNotFound {
			exit = ExitCommandError
		}
		return WrapExitError(exit, "manifest is invalid", err)
	}

	result := ValidationResult{Valid: true, RuntimeDir: m.RuntimeDir}
	for _, a := range m.Adapters {
		summary := AdapterSummary{Name: a.Name, Op: a.Op}
		for _, b := range a.Bindings {
			summary.Static = append(summary.Static, b.Static)
			summary.Dynamic = append(summary.Dynamic, b.Dynamic)
		}
		result.Adapters = append(result.Adapters, summary)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	s := formatter.style()
	fmt.Fprintf(formatter.Writer, "%s %s: %d adapter(s)\n", s.mark(true), path, len(result.Adapters))
	for _, a := range result.Adapters {
		fmt.Fprintf(formatter.Writer, "  %s\n", s.header.Render(a.Name))
		for i := range a.Static {
			fmt.Fprintf(formatter.Writer, "    %s -> %s\n", a.Static[i], a.Dynamic[i])
		}
	}
	return nil
}
