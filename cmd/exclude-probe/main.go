// Command exclude-probe exits with the consistency status of the built-in
// libraries: 0 consistent true, 1 consistent false, 17 inconsistent,
// 42 dynamic resolution failed. It takes no arguments and prints nothing.
//
// The blank import below is the runtime-only dependency. A build that
// excludes it produces a probe that exits 42.
package main

import (
	"os"

	_ "github.com/roach88/linkcheck/internal/capability/runtimeonly"
	"github.com/roach88/linkcheck/internal/probe"
	"github.com/roach88/linkcheck/internal/resolve"
)

func main() {
	os.Exit(probe.Run(resolve.Default()))
}
