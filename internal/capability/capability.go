// Package capability defines the unit compared between resolution paths.
package capability

import (
	"fmt"
	"sort"
)

// Op is the name of the single operation every capability exposes.
const Op = "Doit"

// Capability is a named unit exposing one deterministic boolean operation.
// Implementations hold no mutable state.
type Capability interface {
	Doit() bool
}

// Catalog maps identifiers to capability values linked into the binary.
//
// The catalog is consulted when adapters are assembled, never while a check
// runs: the static path holds the looked-up value directly and calls it
// without any name-based lookup.
type Catalog map[string]Capability

// Lookup returns the capability linked under name.
func (c Catalog) Lookup(name string) (Capability, error) {
	capab, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("capability %q is not linked statically", name)
	}
	return capab, nil
}

// Names returns the catalog identifiers in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
