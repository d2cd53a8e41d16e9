// Package runtimeonly holds a capability that is never linked statically.
//
// Nothing refers to UnwantedDependency by type. It becomes reachable by name
// only when this package is blank-imported, which registers it with the
// default resolve registry.
package runtimeonly

import "github.com/roach88/linkcheck/internal/resolve"

// UnwantedDependencyName is the identifier of UnwantedDependency.
const UnwantedDependencyName = "runtimeonly.UnwantedDependency"

func init() {
	resolve.Register(UnwantedDependencyName, newUnwantedDependency)
}

type unwantedDependency struct{}

func newUnwantedDependency() *unwantedDependency { return &unwantedDependency{} }

func (*unwantedDependency) Doit() bool { return true }
