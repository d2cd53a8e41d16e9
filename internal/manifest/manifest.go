// Package manifest loads capability manifests written in CUE.
//
// A manifest declares the adapters a check runs and, for each adapter, the
// bindings between a statically linked capability and the identifier the
// dynamic path resolves:
//
//	runtime_dir: "runtime"
//
//	adapter: LibraryUsingWanted: bindings: [{
//		static:  "stubs.Dependency"
//		dynamic: "stubs.RuntimeDependency"
//	}]
//
// Adapters keep their declaration order. runtime_dir is optional and is
// resolved relative to the manifest location.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/linkcheck/internal/adapter"
	"github.com/roach88/linkcheck/internal/capability"
)

// Error codes for manifest loading.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeNotFound    = "E005"
	ErrCodeLoadFailed  = "E004"
	ErrCodeBuildFailed = "E006"
	ErrCodeSchema      = "E201"
	ErrCodeNoAdapters  = "E202"
	ErrCodeNotLinked   = "E203"
)

// schema constrains every manifest. #Manifest is unified with the user
// value before decoding so violations carry CUE positions. Definitions are
// closed, so misspelled fields are rejected at every level.
const schema = `
#Manifest: {
	runtime_dir?: string
	adapter: [string]: #Adapter
}
#Adapter: {
	op?: string & =~"^[A-Z][A-Za-z0-9_]*$"
	bindings: [#Binding, ...#Binding]
}
#Binding: {
	static:  string & !=""
	dynamic: string & !=""
}
`

// Error is a manifest loading failure.
type Error struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Manifest is a decoded capability manifest.
type Manifest struct {
	// Path is the file or directory the manifest was loaded from.
	Path string

	// RuntimeDir is the absolute or manifest-relative directory of
	// interpreted capability sources. Empty when not declared.
	RuntimeDir string

	Adapters []AdapterSpec
}

// AdapterSpec declares one adapter.
type AdapterSpec struct {
	Name     string
	Op       string
	Bindings []BindingSpec
}

// BindingSpec declares one binding by identifier.
type BindingSpec struct {
	Static  string
	Dynamic string
}

// Load reads a manifest from a .cue file or from a directory of .cue files.
func Load(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("manifest not found: %s", path)}
	}
	if err != nil {
		return nil, &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing manifest: %v", err)}
	}

	ctx := cuecontext.New()
	var value cue.Value
	var baseDir string
	if info.IsDir() {
		baseDir = path
		instances := load.Instances([]string{"."}, &load.Config{Dir: path})
		if len(instances) == 0 {
			return nil, &Error{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
		}
		if instances[0].Err != nil {
			return nil, &Error{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", instances[0].Err)}
		}
		value = ctx.BuildInstance(instances[0])
	} else {
		baseDir = filepath.Dir(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading manifest: %v", err)}
		}
		value = ctx.CompileBytes(data, cue.Filename(path))
	}

	m, err := Decode(value)
	if err != nil {
		return nil, err
	}
	m.Path = path
	if m.RuntimeDir != "" && !filepath.IsAbs(m.RuntimeDir) {
		m.RuntimeDir = filepath.Join(baseDir, m.RuntimeDir)
	}
	return m, nil
}

// Parse decodes a manifest from CUE source. RuntimeDir is left as written.
func Parse(filename string, src []byte) (*Manifest, error) {
	v := cuecontext.New().CompileBytes(src, cue.Filename(filename))
	m, err := Decode(v)
	if err != nil {
		return nil, err
	}
	m.Path = filename
	return m, nil
}

// Decode validates v against the manifest schema and decodes it.
func Decode(v cue.Value) (*Manifest, error) {
	if err := v.Err(); err != nil {
		return nil, &Error{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err), Pos: v.Pos()}
	}

	unified := v.Context().CompileString(schema).LookupPath(cue.ParsePath("#Manifest")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &Error{Code: ErrCodeSchema, Message: err.Error(), Pos: unified.Pos()}
	}

	m := &Manifest{}
	if rd := unified.LookupPath(cue.ParsePath("runtime_dir")); rd.Exists() {
		s, err := rd.String()
		if err != nil {
			return nil, &Error{Code: ErrCodeSchema, Message: fmt.Sprintf("runtime_dir: %v", err), Pos: rd.Pos()}
		}
		m.RuntimeDir = s
	}

	adapters := unified.LookupPath(cue.ParsePath("adapter"))
	if !adapters.Exists() {
		return nil, &Error{Code: ErrCodeNoAdapters, Message: "manifest declares no adapters", Pos: v.Pos()}
	}
	iter, err := adapters.Fields()
	if err != nil {
		return nil, &Error{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating adapters: %v", err), Pos: adapters.Pos()}
	}
	for iter.Next() {
		spec, err := decodeAdapter(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		m.Adapters = append(m.Adapters, spec)
	}
	if len(m.Adapters) == 0 {
		return nil, &Error{Code: ErrCodeNoAdapters, Message: "manifest declares no adapters", Pos: adapters.Pos()}
	}
	return m, nil
}

func decodeAdapter(name string, v cue.Value) (AdapterSpec, error) {
	spec := AdapterSpec{Name: name}
	if op := v.LookupPath(cue.ParsePath("op")); op.Exists() {
		s, err := op.String()
		if err != nil {
			return spec, &Error{Code: ErrCodeSchema, Message: fmt.Sprintf("adapter.%s.op: %v", name, err), Pos: op.Pos()}
		}
		spec.Op = s
	}

	var raw []struct {
		Static  string `json:"static"`
		Dynamic string `json:"dynamic"`
	}
	bindings := v.LookupPath(cue.ParsePath("bindings"))
	if err := bindings.Decode(&raw); err != nil {
		return spec, &Error{Code: ErrCodeSchema, Message: fmt.Sprintf("adapter.%s.bindings: %v", name, err), Pos: bindings.Pos()}
	}
	for _, b := range raw {
		spec.Bindings = append(spec.Bindings, BindingSpec{Static: b.Static, Dynamic: b.Dynamic})
	}
	return spec, nil
}

// Build assembles adapters, taking static references from cat.
// The catalog is only consulted here; the returned adapters hold the values.
func (m *Manifest) Build(cat capability.Catalog) ([]*adapter.Adapter, error) {
	adapters := make([]*adapter.Adapter, 0, len(m.Adapters))
	for _, spec := range m.Adapters {
		a := &adapter.Adapter{Name: spec.Name, Op: spec.Op}
		for i, b := range spec.Bindings {
			capab, err := cat.Lookup(b.Static)
			if err != nil {
				return nil, &Error{Code: ErrCodeNotLinked, Message: fmt.Sprintf("adapter.%s.bindings[%d]: %v", spec.Name, i, err)}
			}
			a.Bindings = append(a.Bindings, adapter.Binding{
				Static:     capab,
				StaticName: b.Static,
				Dynamic:    b.Dynamic,
			})
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}
