package resolve

import (
	"errors"
	"fmt"
)

// Resolver locates capabilities by identifier at run time.
//
// Resolve covers locating and constructing an instance. Invoke covers
// locating an operation on that instance by name and calling it. Both
// return *Error on failure.
type Resolver interface {
	Resolve(name string) (Instance, error)
	Invoke(inst Instance, op string) (bool, error)
}

// Instance is a capability constructed by a Resolver.
// It is only meaningful to the resolver that produced it.
type Instance struct {
	name  string
	owner Resolver
	value any
}

// Name returns the identifier the instance was resolved from.
func (i Instance) Name() string {
	return i.name
}

// Call resolves name through r and invokes op on the fresh instance.
func Call(r Resolver, name, op string) (bool, error) {
	inst, err := r.Resolve(name)
	if err != nil {
		return false, err
	}
	return r.Invoke(inst, op)
}

// Chain consults resolvers in order. The first resolver that knows an
// identifier owns it; failures past name resolution are not retried.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(name string) (Instance, error) {
	for _, r := range c {
		inst, err := r.Resolve(name)
		if err == nil {
			return inst, nil
		}
		if !IsNotFound(err) {
			return Instance{}, err
		}
	}
	return Instance{}, notFound(name, fmt.Errorf("not provided by any of %d resolvers", len(c)))
}

// Invoke implements Resolver by delegating to the instance's owner.
func (c Chain) Invoke(inst Instance, op string) (bool, error) {
	if inst.owner == nil {
		return false, invocationFailed(inst.name, op, errors.New("instance was not produced by a resolver"))
	}
	return inst.owner.Invoke(inst, op)
}
