package resolve

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Registry resolves identifiers against registered constructors.
//
// A constructor is any func with no parameters returning either T or
// (T, error). Construction and invocation go through reflection so the
// registry never hands out a typed reference to the caller.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]any)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry populated by Register.
func Default() *Registry {
	return defaultRegistry
}

// Register makes a constructor available in the default registry.
// It panics if called twice with the same name or with a nil constructor.
func Register(name string, ctor any) {
	defaultRegistry.Register(name, ctor)
}

// Register makes a constructor available under name.
// It panics if called twice with the same name or with a nil constructor.
func (r *Registry) Register(name string, ctor any) {
	if ctor == nil {
		panic("resolve: Register constructor is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ctors[name]; dup {
		panic("resolve: Register called twice for " + name)
	}
	r.ctors[name] = ctor
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements Resolver.
func (r *Registry) Resolve(name string) (Instance, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		return Instance{}, notFound(name, nil)
	}

	value, err := construct(ctor)
	if err != nil {
		return Instance{}, constructionFailed(name, err)
	}
	return Instance{name: name, owner: r, value: value}, nil
}

// Invoke implements Resolver.
func (r *Registry) Invoke(inst Instance, op string) (bool, error) {
	v, ok := inst.value.(reflect.Value)
	if !ok || !v.IsValid() {
		return false, invocationFailed(inst.name, op, errors.New("instance was not produced by a registry"))
	}

	method := v.MethodByName(op)
	if !method.IsValid() {
		return false, lookupFailed(inst.name, op, fmt.Errorf("%s has no method %s", v.Type(), op))
	}
	mt := method.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool {
		return false, lookupFailed(inst.name, op, fmt.Errorf("method has signature %s, want func() bool", mt))
	}

	out, err := call(method)
	if err != nil {
		return false, invocationFailed(inst.name, op, err)
	}
	return out[0].Bool(), nil
}

// construct calls ctor and returns the produced value.
func construct(ctor any) (reflect.Value, error) {
	fn := reflect.ValueOf(ctor)
	if fn.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("constructor is %T, not a func", ctor)
	}
	ft := fn.Type()
	if ft.NumIn() != 0 {
		return reflect.Value{}, fmt.Errorf("constructor takes %d arguments, want 0", ft.NumIn())
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return reflect.Value{}, fmt.Errorf("constructor has signature %s, want func() T or func() (T, error)", ft)
	}

	out, err := call(fn)
	if err != nil {
		return reflect.Value{}, err
	}
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}
	v := out[0]
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return reflect.Value{}, errors.New("constructor returned nil")
		}
	}
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v, nil
}

// call invokes fn, converting a panic into an error.
func call(fn reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn.Call(nil), nil
}
