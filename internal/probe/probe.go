// Package probe assembles the built-in exclusion probe.
//
// Two libraries link the same build-time Dependency. At run time each looks
// up a different identifier by name: the wanted library finds a capability
// from the statically linked stubs package, the unwanted library needs one
// that exists only when the runtimeonly package was linked in. Whether the
// build kept or dropped runtimeonly is exactly what the probe's status
// certifies.
package probe

import (
	"github.com/roach88/linkcheck/internal/adapter"
	"github.com/roach88/linkcheck/internal/capability/stubs"
	"github.com/roach88/linkcheck/internal/checker"
	"github.com/roach88/linkcheck/internal/resolve"
)

// Adapter names of the built-in libraries.
const (
	WantedLibrary   = "LibraryUsingWanted"
	UnwantedLibrary = "LibraryUsingUnwanted"
)

// UnwantedIdentifier names the runtime-only capability. It is spelled out
// rather than imported so this package never links runtimeonly itself.
const UnwantedIdentifier = "runtimeonly.UnwantedDependency"

// Adapters returns the two built-in libraries.
func Adapters() []*adapter.Adapter {
	return []*adapter.Adapter{
		adapter.New(WantedLibrary, adapter.Binding{
			Static:     stubs.NewDependency(),
			StaticName: stubs.DependencyName,
			Dynamic:    stubs.RuntimeDependencyName,
		}),
		adapter.New(UnwantedLibrary, adapter.Binding{
			Static:     stubs.NewDependency(),
			StaticName: stubs.DependencyName,
			Dynamic:    UnwantedIdentifier,
		}),
	}
}

// Run checks the built-in libraries against r and returns the exit status.
func Run(r resolve.Resolver) int {
	return checker.Check(r, Adapters()...).Status()
}
