package shell

import (
	"sort"
	"strings"
)

// DefaultAliasDepth caps recursive alias expansion. Hitting the cap is a
// silent truncation, not an error.
const DefaultAliasDepth = 10

// AliasRegistry stores command aliases. An alias substitutes the first word
// of a command line; the remainder of the line is preserved verbatim.
//
// The registry belongs to a single shell session and is not safe for
// concurrent use without external locking.
type AliasRegistry struct {
	aliases map[string]string
}

// NewAliasRegistry returns an empty registry.
func NewAliasRegistry() *AliasRegistry {
	return &AliasRegistry{aliases: make(map[string]string)}
}

// Define adds or replaces an alias.
func (r *AliasRegistry) Define(name, expansion string) {
	r.aliases[name] = expansion
}

// Get returns the expansion for name.
func (r *AliasRegistry) Get(name string) (string, bool) {
	expansion, ok := r.aliases[name]
	return expansion, ok
}

// Exists reports whether name is defined.
func (r *AliasRegistry) Exists(name string) bool {
	_, ok := r.aliases[name]
	return ok
}

// Delete removes an alias, reporting whether it existed.
func (r *AliasRegistry) Delete(name string) bool {
	if _, ok := r.aliases[name]; !ok {
		return false
	}
	delete(r.aliases, name)
	return true
}

// Names returns all alias names sorted alphabetically.
func (r *AliasRegistry) Names() []string {
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every alias.
func (r *AliasRegistry) Clear() {
	r.aliases = make(map[string]string)
}

// Len returns the number of defined aliases.
func (r *AliasRegistry) Len() int {
	return len(r.aliases)
}

// ExpandOption adjusts alias expansion behavior.
type ExpandOption func(*expandConfig)

type expandConfig struct {
	recursive bool
	maxDepth  int
}

// NonRecursive expands exactly one level.
func NonRecursive() ExpandOption {
	return func(c *expandConfig) { c.recursive = false }
}

// MaxDepth overrides the recursion cap.
func MaxDepth(n int) ExpandOption {
	return func(c *expandConfig) { c.maxDepth = n }
}

// Expand replaces the first word of command with its alias expansion.
// Recursive mode re-examines the first word of each result, stopping silently
// when a cycle is detected (an alias recurs within one chain) or the depth
// cap is reached. Expansion always terminates and never fails.
func (r *AliasRegistry) Expand(command string, opts ...ExpandOption) string {
	cfg := expandConfig{recursive: true, maxDepth: DefaultAliasDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	if strings.TrimSpace(command) == "" {
		return command
	}

	if !cfg.recursive {
		cmd, rest := splitCommand(command)
		expansion, ok := r.aliases[cmd]
		if !ok {
			return command
		}
		return joinCommand(expansion, rest)
	}

	return r.expandRecursive(command, map[string]bool{}, 0, cfg.maxDepth)
}

func (r *AliasRegistry) expandRecursive(command string, seen map[string]bool, depth, maxDepth int) string {
	if depth >= maxDepth {
		return command
	}

	cmd, rest := splitCommand(command)
	expansion, ok := r.aliases[cmd]
	if !ok || seen[cmd] {
		return command
	}

	seen[cmd] = true
	expanded := r.expandRecursive(expansion, seen, depth+1, maxDepth)
	return joinCommand(expanded, rest)
}

// splitCommand separates the first whitespace-delimited word from the rest.
func splitCommand(command string) (cmd, rest string) {
	trimmed := strings.TrimSpace(command)
	parts := strings.SplitN(trimmed, " ", 2)
	cmd = parts[0]
	if len(parts) > 1 {
		rest = strings.TrimSpace(parts[1])
	}

	// The first word may be tab-delimited.
	if tab := strings.IndexAny(cmd, "\t"); tab >= 0 {
		rest = strings.TrimSpace(cmd[tab:] + " " + rest)
		cmd = cmd[:tab]
	}
	return cmd, rest
}

func joinCommand(cmd, rest string) string {
	if rest == "" {
		return cmd
	}
	return cmd + " " + rest
}
