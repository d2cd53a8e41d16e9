package resolve

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Script resolves identifiers against Go sources interpreted at run time.
//
// Every .go file in the directory is evaluated once when the resolver is
// created. The identifier "pkg.Type" resolves only when a loaded file
// declares package pkg together with a constructor NewType. Instances live
// inside the interpreter and are addressed by a generated variable name.
type Script struct {
	dir      string
	files    []string
	packages map[string]bool

	mu     sync.Mutex
	interp *interp.Interpreter
	seq    int
}

// NewScript interprets every .go file in dir.
// A missing directory yields a resolver that knows no identifiers.
func NewScript(dir string) (*Script, error) {
	s := &Script{
		dir:      dir,
		packages: make(map[string]bool),
		interp:   interp.New(interp.Options{}),
	}
	if err := s.interp.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("script: load stdlib symbols: %w", err)
	}

	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return s, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("script: read %s: %w", trimmed, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		s.files = append(s.files, filepath.Join(trimmed, entry.Name()))
	}
	sort.Strings(s.files)

	fset := token.NewFileSet()
	for _, path := range s.files {
		if _, err := s.eval(func() (reflect.Value, error) { return s.interp.EvalPath(path) }); err != nil {
			return nil, fmt.Errorf("script: interpret %s: %w", path, err)
		}
		f, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly)
		if err != nil {
			return nil, fmt.Errorf("script: package clause of %s: %w", path, err)
		}
		s.packages[f.Name.Name] = true
	}
	return s, nil
}

// Packages returns the package names declared by the interpreted sources.
func (s *Script) Packages() []string {
	names := make([]string, 0, len(s.packages))
	for name := range s.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dir returns the source directory.
func (s *Script) Dir() string {
	return s.dir
}

// Files returns the interpreted source files.
func (s *Script) Files() []string {
	return append([]string(nil), s.files...)
}

// Resolve implements Resolver.
func (s *Script) Resolve(name string) (Instance, error) {
	pkg, typ, err := splitIdentifier(name)
	if err != nil {
		return Instance{}, notFound(name, err)
	}
	if !s.packages[pkg] {
		return Instance{}, notFound(name, fmt.Errorf("no interpreted source declares package %s", pkg))
	}
	ctorExpr := constructorExpr(pkg, typ)

	s.mu.Lock()
	defer s.mu.Unlock()

	ctor, err := s.evalSrc(ctorExpr)
	if err != nil {
		return Instance{}, notFound(name, err)
	}
	if ctor.Kind() != reflect.Func {
		return Instance{}, constructionFailed(name, fmt.Errorf("%s is not a func", ctorExpr))
	}

	s.seq++
	varName := fmt.Sprintf("linkcheckInstance%d", s.seq)
	if _, err := s.evalSrc(fmt.Sprintf("var %s = %s()", varName, ctorExpr)); err != nil {
		return Instance{}, constructionFailed(name, err)
	}
	return Instance{name: name, owner: s, value: varName}, nil
}

// Invoke implements Resolver.
func (s *Script) Invoke(inst Instance, op string) (bool, error) {
	varName, ok := inst.value.(string)
	if !ok || varName == "" {
		return false, invocationFailed(inst.name, op, errors.New("instance was not produced by a script resolver"))
	}
	if !token.IsIdentifier(op) || !token.IsExported(op) {
		return false, lookupFailed(inst.name, op, fmt.Errorf("%q is not an exported method name", op))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The assertion runs inside the interpreter, where the method set of an
	// interpreted type is known. A missing method and a wrong signature
	// both leave ok false.
	found, err := s.evalSrc(fmt.Sprintf(
		"(func() bool { _, ok := interface{}(%s).(interface{ %s() bool }); return ok })()", varName, op))
	if err != nil {
		return false, lookupFailed(inst.name, op, err)
	}
	if found.Kind() != reflect.Bool || !found.Bool() {
		return false, lookupFailed(inst.name, op, fmt.Errorf("no method %s() bool", op))
	}

	res, err := s.evalSrc(varName + "." + op + "()")
	if err != nil {
		return false, invocationFailed(inst.name, op, err)
	}
	if res.Kind() != reflect.Bool {
		return false, invocationFailed(inst.name, op, fmt.Errorf("returned %s, want bool", res.Kind()))
	}
	return res.Bool(), nil
}

func (s *Script) evalSrc(src string) (reflect.Value, error) {
	return s.eval(func() (reflect.Value, error) { return s.interp.Eval(src) })
}

// eval runs fn, converting an interpreter panic into an error.
func (s *Script) eval(fn func() (reflect.Value, error)) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// splitIdentifier splits "pkg.Type" into its package and type names.
func splitIdentifier(name string) (pkg, typ string, err error) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return "", "", fmt.Errorf("identifier %q is not of the form pkg.Type", name)
	}
	pkg, typ = name[:dot], name[dot+1:]
	if !token.IsIdentifier(pkg) || !token.IsIdentifier(typ) || !token.IsExported(typ) {
		return "", "", fmt.Errorf("identifier %q is not of the form pkg.Type", name)
	}
	return pkg, typ, nil
}

// constructorExpr names the constructor of pkg.Type as seen from the
// interpreter's main scope. Other packages are visible under their name.
func constructorExpr(pkg, typ string) string {
	if pkg == "main" {
		return "New" + typ
	}
	return pkg + ".New" + typ
}
