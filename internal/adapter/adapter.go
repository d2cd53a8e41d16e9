// Package adapter binds capabilities to both resolution paths.
//
// Each Binding pairs a capability value held directly (the static path)
// with the identifier the dynamic path resolves by name. The two halves are
// independent: the dynamic path never sees the static reference, which is
// what lets a check tell "absent at run time" apart from "present but
// different".
package adapter

import (
	"fmt"

	"github.com/roach88/linkcheck/internal/capability"
	"github.com/roach88/linkcheck/internal/resolve"
)

// Binding ties one capability to both resolution paths.
type Binding struct {
	// Static is the capability reference fixed when the adapter is built.
	Static capability.Capability

	// StaticName labels the static reference in traces.
	// Defaults to the dynamic type of Static.
	StaticName string

	// Dynamic is the identifier resolved by name at invocation time.
	Dynamic string
}

func (b Binding) staticLabel() string {
	if b.StaticName != "" {
		return b.StaticName
	}
	return fmt.Sprintf("%T", b.Static)
}

// Evaluation is the outcome of one binding on one path.
type Evaluation struct {
	Adapter    string
	Binding    int
	Identifier string
	Value      bool

	// Err is set only on the dynamic path.
	Err error
}

// Adapter wraps a set of bindings behind a static and a dynamic access path.
type Adapter struct {
	Name     string
	Bindings []Binding

	// Op is the operation invoked on the dynamic path. Defaults to capability.Op.
	Op string
}

// New creates an adapter over the given bindings.
func New(name string, bindings ...Binding) *Adapter {
	return &Adapter{Name: name, Bindings: bindings}
}

func (a *Adapter) op() string {
	if a.Op != "" {
		return a.Op
	}
	return capability.Op
}

// EvaluateStatic calls every bound capability directly.
// A panic in Doit propagates: static capabilities are infallible by contract.
func (a *Adapter) EvaluateStatic() []Evaluation {
	evals := make([]Evaluation, 0, len(a.Bindings))
	for i, b := range a.Bindings {
		evals = append(evals, Evaluation{
			Adapter:    a.Name,
			Binding:    i,
			Identifier: b.staticLabel(),
			Value:      b.Static.Doit(),
		})
	}
	return evals
}

// EvaluateDynamic resolves and invokes every binding by name.
//
// Bindings that return false do not stop evaluation. The first resolution
// error does: its evaluation is the last element and the error is returned.
func (a *Adapter) EvaluateDynamic(r resolve.Resolver) ([]Evaluation, error) {
	evals := make([]Evaluation, 0, len(a.Bindings))
	for i, b := range a.Bindings {
		v, err := resolve.Call(r, b.Dynamic, a.op())
		evals = append(evals, Evaluation{
			Adapter:    a.Name,
			Binding:    i,
			Identifier: b.Dynamic,
			Value:      v,
			Err:        err,
		})
		if err != nil {
			return evals, fmt.Errorf("adapter %s binding %d: %w", a.Name, i, err)
		}
	}
	return evals, nil
}

// StaticCombined is the AND of every binding's static result.
func (a *Adapter) StaticCombined() bool {
	return Combine(a.EvaluateStatic())
}

// DynamicCombined is the AND of every binding's dynamic result.
func (a *Adapter) DynamicCombined(r resolve.Resolver) (bool, error) {
	evals, err := a.EvaluateDynamic(r)
	if err != nil {
		return false, err
	}
	return Combine(evals), nil
}

// Combine ANDs evaluation values. Every element is visited.
func Combine(evals []Evaluation) bool {
	result := true
	for _, e := range evals {
		result = result && e.Value
	}
	return result
}
