// Package stubs holds the capability variants linked statically.
//
// Each variant is also registered with the default resolve registry so the
// dynamic path can reach it by name.
package stubs

import (
	"github.com/roach88/linkcheck/internal/capability"
	"github.com/roach88/linkcheck/internal/resolve"
)

// Identifiers of the variants in this package.
const (
	DependencyName         = "stubs.Dependency"
	RuntimeDependencyName  = "stubs.RuntimeDependency"
	DisabledDependencyName = "stubs.DisabledDependency"
)

func init() {
	resolve.Register(DependencyName, NewDependency)
	resolve.Register(RuntimeDependencyName, NewRuntimeDependency)
	resolve.Register(DisabledDependencyName, NewDisabledDependency)
}

// Dependency is the build-time dependency every library links against.
type Dependency struct{}

// NewDependency constructs a Dependency.
func NewDependency() *Dependency { return &Dependency{} }

// Doit reports true.
func (*Dependency) Doit() bool { return true }

// RuntimeDependency is the dependency libraries look up by name at run time.
type RuntimeDependency struct{}

// NewRuntimeDependency constructs a RuntimeDependency.
func NewRuntimeDependency() *RuntimeDependency { return &RuntimeDependency{} }

// Doit reports true.
func (*RuntimeDependency) Doit() bool { return true }

// DisabledDependency is a variant whose operation reports false.
type DisabledDependency struct{}

// NewDisabledDependency constructs a DisabledDependency.
func NewDisabledDependency() *DisabledDependency { return &DisabledDependency{} }

// Doit reports false.
func (*DisabledDependency) Doit() bool { return false }

// Catalog returns the variants of this package keyed by identifier.
func Catalog() capability.Catalog {
	return capability.Catalog{
		DependencyName:         NewDependency(),
		RuntimeDependencyName:  NewRuntimeDependency(),
		DisabledDependencyName: NewDisabledDependency(),
	}
}
