package manifest

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
)

// CompileError is a structured error from CUE catalog compilation.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadCUE reads and compiles a CUE catalog file. The expected shape is:
//
//	catalog: {
//	    name:        "gpu-driver"
//	    description: "Required driver entry points"
//	    functions: [
//	        {id: "MATH_ADD", version: "v1.0"},
//	    ]
//	}
//
// Uses the CUE SDK's Go API directly (not a CLI subprocess), so catalog
// authors get CUE's own constraint checking on top of the validation below.
func LoadCUE(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}

	catalogVal := value.LookupPath(cue.ParsePath("catalog"))
	if !catalogVal.Exists() {
		return nil, &CompileError{
			Field:   "catalog",
			Message: "catalog struct is required",
			Pos:     value.Pos(),
		}
	}

	m, err := compileCatalog(catalogVal)
	if err != nil {
		return nil, err
	}

	if err := validate(m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return m, nil
}

// compileCatalog parses the catalog CUE value into a Manifest.
func compileCatalog(v cue.Value) (*Manifest, error) {
	m := &Manifest{}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{Field: "name", Message: "name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, &CompileError{Field: "name", Message: err.Error(), Pos: nameVal.Pos()}
	}
	m.Name = name

	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, &CompileError{Field: "description", Message: err.Error(), Pos: descVal.Pos()}
		}
		m.Description = desc
	}

	funcsVal := v.LookupPath(cue.ParsePath("functions"))
	if !funcsVal.Exists() {
		return nil, &CompileError{Field: "functions", Message: "functions list is required", Pos: v.Pos()}
	}

	iter, err := funcsVal.List()
	if err != nil {
		return nil, &CompileError{Field: "functions", Message: fmt.Sprintf("must be a list: %v", err), Pos: funcsVal.Pos()}
	}

	for i := 0; iter.Next(); i++ {
		decl, err := compileFunction(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		m.Functions = append(m.Functions, decl)
	}

	return m, nil
}

// compileFunction parses one {id, version} element.
func compileFunction(v cue.Value, index int) (FunctionDecl, error) {
	field := fmt.Sprintf("functions[%d]", index)

	idVal := v.LookupPath(cue.ParsePath("id"))
	if !idVal.Exists() {
		return FunctionDecl{}, &CompileError{Field: field + ".id", Message: "id is required", Pos: v.Pos()}
	}
	id, err := idVal.String()
	if err != nil {
		return FunctionDecl{}, &CompileError{Field: field + ".id", Message: err.Error(), Pos: idVal.Pos()}
	}

	versionVal := v.LookupPath(cue.ParsePath("version"))
	if !versionVal.Exists() {
		return FunctionDecl{}, &CompileError{Field: field + ".version", Message: "version is required", Pos: v.Pos()}
	}
	version, err := versionVal.String()
	if err != nil {
		return FunctionDecl{}, &CompileError{Field: field + ".version", Message: err.Error(), Pos: versionVal.Pos()}
	}

	return FunctionDecl{ID: id, Version: version}, nil
}
