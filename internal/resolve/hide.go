package resolve

import "errors"

// errExcluded marks identifiers removed by Hide.
var errExcluded = errors.New("excluded from the run-time path")

// hidden reports NAME_RESOLUTION for a fixed set of identifiers.
type hidden struct {
	next  Resolver
	names map[string]bool
}

// Hide wraps r so the given identifiers fail name resolution, as if the
// packages providing them had been dropped from the build.
func Hide(r Resolver, names ...string) Resolver {
	if len(names) == 0 {
		return r
	}
	h := &hidden{next: r, names: make(map[string]bool, len(names))}
	for _, n := range names {
		h.names[n] = true
	}
	return h
}

func (h *hidden) Resolve(name string) (Instance, error) {
	if h.names[name] {
		return Instance{}, notFound(name, errExcluded)
	}
	return h.next.Resolve(name)
}

func (h *hidden) Invoke(inst Instance, op string) (bool, error) {
	return h.next.Invoke(inst, op)
}
