package shell

import (
	"os"
	"path/filepath"
	"strconv"
)

// ExitCodeVar is the reserved variable holding the last exit code as a
// decimal string.
const ExitCodeVar = "?"

// VariableManager holds the global environment plus a stack of local scopes.
// Lookups check the innermost scope first and fall back to the global env.
// Names are matched exactly; nothing is case-folded.
//
// The manager belongs to one shell session. Background jobs must operate on
// a Snapshot rather than sharing the live instance.
type VariableManager struct {
	env    map[string]string
	scopes []map[string]string
}

// NewVariableManager seeds a manager with the given environment. The exit
// code variable starts at "0" and HISTFILE defaults to ~/.agfs_shell_history
// when unset.
func NewVariableManager(initial map[string]string) *VariableManager {
	m := &VariableManager{env: make(map[string]string, len(initial)+2)}
	for k, v := range initial {
		m.env[k] = v
	}

	m.env[ExitCodeVar] = "0"
	if _, ok := m.env["HISTFILE"]; !ok {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "/"
		}
		m.env["HISTFILE"] = filepath.Join(home, ".agfs_shell_history")
	}
	return m
}

// Get returns the variable's value, checking local scopes innermost-first,
// then the global env. Missing variables yield the empty string.
func (m *VariableManager) Get(name string) string {
	return m.GetDefault(name, "")
}

// GetDefault is Get with an explicit fallback for missing variables.
func (m *VariableManager) GetDefault(name, fallback string) string {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if v, ok := m.scopes[i][name]; ok {
			return v
		}
	}
	if v, ok := m.env[name]; ok {
		return v
	}
	return fallback
}

// Has reports whether the variable exists in any scope.
func (m *VariableManager) Has(name string) bool {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if _, ok := m.scopes[i][name]; ok {
			return true
		}
	}
	_, ok := m.env[name]
	return ok
}

// Set assigns a variable. With local set and at least one scope pushed the
// assignment lands in the innermost scope, otherwise in the global env.
func (m *VariableManager) Set(name, value string, local bool) {
	if local && len(m.scopes) > 0 {
		m.scopes[len(m.scopes)-1][name] = value
		return
	}
	m.env[name] = value
}

// Unset removes the variable from every scope it appears in, including the
// global env.
func (m *VariableManager) Unset(name string) {
	for _, scope := range m.scopes {
		delete(scope, name)
	}
	delete(m.env, name)
}

// PushScope enters a new local scope, typically on function entry.
func (m *VariableManager) PushScope() {
	m.scopes = append(m.scopes, make(map[string]string))
}

// PopScope leaves the innermost local scope and returns it. Popping with no
// scope present is a silent no-op returning an empty map, so deferred pops
// stay safe on abnormal function exit.
func (m *VariableManager) PopScope() map[string]string {
	if len(m.scopes) == 0 {
		return map[string]string{}
	}
	scope := m.scopes[len(m.scopes)-1]
	m.scopes = m.scopes[:len(m.scopes)-1]
	return scope
}

// ScopeDepth returns the number of active local scopes.
func (m *VariableManager) ScopeDepth() int {
	return len(m.scopes)
}

// Export marks a variable for child processes, setting it first when a value
// is given. All globals are exported in this shell, so exporting an unset
// variable just creates it empty.
func (m *VariableManager) Export(name string, value *string) {
	switch {
	case value != nil:
		m.env[name] = *value
	default:
		if _, ok := m.env[name]; !ok {
			m.env[name] = ""
		}
	}
}

// SetExitCode records code in the "?" variable.
func (m *VariableManager) SetExitCode(code int) {
	m.env[ExitCodeVar] = strconv.Itoa(code)
}

// ExitCode returns the last exit code, or 0 when the variable does not parse.
func (m *VariableManager) ExitCode() int {
	code, err := strconv.Atoi(m.env[ExitCodeVar])
	if err != nil {
		return 0
	}
	return code
}

// All returns a merged view: the global env overlaid by each local scope from
// outermost to innermost.
func (m *VariableManager) All() map[string]string {
	merged := make(map[string]string, len(m.env))
	for k, v := range m.env {
		merged[k] = v
	}
	for _, scope := range m.scopes {
		for k, v := range scope {
			merged[k] = v
		}
	}
	return merged
}

// Snapshot returns an independent manager seeded with the merged view of
// this one. Background jobs expand against a snapshot so worker goroutines
// never share live registry state.
func (m *VariableManager) Snapshot() *VariableManager {
	return &VariableManager{env: m.All()}
}

// ClearScopes drops every local scope. Error-recovery hook; normal unwinding
// happens through PopScope.
func (m *VariableManager) ClearScopes() {
	m.scopes = nil
}
