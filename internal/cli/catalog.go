package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/linkcheck/internal/capability/stubs"
	"github.com/roach88/linkcheck/internal/resolve"
)

// CatalogResult lists the identifiers reachable on each path.
type CatalogResult struct {
	Static       []string `json:"static"`
	Dynamic      []string `json:"dynamic"`
	RuntimeFiles []string `json:"runtime_files,omitempty"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	var runtimeDir string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List linked and registered capabilities",
		Long: `List the capability identifiers this binary links statically and the
identifiers its registry can resolve by name.

With --runtime-dir, also list the interpreted source files that may provide
further identifiers to the dynamic path.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := runtimeDir
			if dir == "" {
				dir = rootOpts.settings().RuntimeDir
			}
			return runCatalog(rootOpts, resolve.Default(), dir, cmd)
		},
	}

	cmd.Flags().StringVar(&runtimeDir, "runtime-dir", "", "directory of interpreted capability sources")

	return cmd
}

func runCatalog(opts *RootOptions, registry *resolve.Registry, runtimeDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := CatalogResult{
		Static:  stubs.Catalog().Names(),
		Dynamic: registry.Names(),
	}
	if runtimeDir != "" {
		script, err := resolve.NewScript(runtimeDir)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load runtime sources", err)
		}
		result.RuntimeFiles = script.Files()
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	s := formatter.style()
	fmt.Fprintln(w, s.header.Render("Static (linked):"))
	for _, name := range result.Static {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w, s.header.Render("Dynamic (registered):"))
	for _, name := range result.Dynamic {
		fmt.Fprintf(w, "  %s\n", name)
	}
	if runtimeDir != "" {
		fmt.Fprintln(w, s.header.Render("Runtime sources:"))
		for _, file := range result.RuntimeFiles {
			fmt.Fprintf(w, "  %s\n", filepath.Base(file))
		}
	}
	return nil
}
