// Command linkcheck checks that capabilities resolve the same way through
// static linkage and run-time lookup, and records and replays those checks.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/linkcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
