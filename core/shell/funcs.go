package shell

import "sort"

// FunctionDefinition is a user-defined shell function. Body is either raw
// command lines or parsed statements, never both (see Body).
type FunctionDefinition struct {
	Name   string
	Params []string
	Body   Body
}

// FunctionSpec is the untyped interchange form used by serialization and by
// callers migrating from map-based function storage.
type FunctionSpec struct {
	Params []string `json:"params,omitempty"`
	Body   []string `json:"body,omitempty"`
}

// FunctionRegistry stores user-defined functions for one shell session. It
// is pure storage; execution lives in the interpreter.
type FunctionRegistry struct {
	functions map[string]*FunctionDefinition
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: make(map[string]*FunctionDefinition)}
}

// Define adds or replaces a function whose body is raw command lines.
func (r *FunctionRegistry) Define(name string, params []string, body []string) {
	r.functions[name] = &FunctionDefinition{
		Name:   name,
		Params: params,
		Body:   RawBody(body),
	}
}

// DefineParsed adds or replaces a function whose body was parsed into
// statements by the control-flow parser.
func (r *FunctionRegistry) DefineParsed(name string, params []string, body []Statement) {
	r.functions[name] = &FunctionDefinition{
		Name:   name,
		Params: params,
		Body:   ParsedBody(body),
	}
}

// DefineFromSpec adds a function from its interchange form.
func (r *FunctionRegistry) DefineFromSpec(name string, spec FunctionSpec) {
	r.Define(name, spec.Params, spec.Body)
}

// Get returns the definition for name.
func (r *FunctionRegistry) Get(name string) (*FunctionDefinition, bool) {
	def, ok := r.functions[name]
	return def, ok
}

// Exists reports whether name is defined.
func (r *FunctionRegistry) Exists(name string) bool {
	_, ok := r.functions[name]
	return ok
}

// Delete removes a function, reporting whether it existed.
func (r *FunctionRegistry) Delete(name string) bool {
	if _, ok := r.functions[name]; !ok {
		return false
	}
	delete(r.functions, name)
	return true
}

// Names returns all function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every function.
func (r *FunctionRegistry) Clear() {
	r.functions = make(map[string]*FunctionDefinition)
}

// Len returns the number of defined functions.
func (r *FunctionRegistry) Len() int {
	return len(r.functions)
}
