package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliasRegistry_Basics(t *testing.T) {
	r := NewAliasRegistry()

	r.Define("ll", "ls -l")
	r.Define("la", "ls -a")

	got, ok := r.Get("ll")
	assert.True(t, ok)
	assert.Equal(t, "ls -l", got)

	assert.True(t, r.Exists("la"))
	assert.False(t, r.Exists("lz"))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"la", "ll"}, r.Names())

	// Last define wins.
	r.Define("ll", "ls -la")
	got, _ = r.Get("ll")
	assert.Equal(t, "ls -la", got)

	assert.True(t, r.Delete("la"))
	assert.False(t, r.Delete("la"))

	r.Clear()
	assert.Equal(t, 0, r.Len())
}

func TestAliasRegistry_Expand(t *testing.T) {
	r := NewAliasRegistry()
	r.Define("l", "ls")
	r.Define("ll", "l -l")

	cases := []struct {
		name     string
		command  string
		expected string
	}{
		{"simple", "l", "ls"},
		{"chained", "ll /tmp", "ls -l /tmp"},
		{"arguments preserved", "l -a /home", "ls -a /home"},
		{"unknown command untouched", "cat /etc/motd", "cat /etc/motd"},
		{"empty", "", ""},
		{"whitespace only", "   ", "   "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, r.Expand(tc.command))
		})
	}
}

func TestAliasRegistry_ExpandNonRecursive(t *testing.T) {
	r := NewAliasRegistry()
	r.Define("l", "ls")
	r.Define("ll", "l -l")

	assert.Equal(t, "l -l /tmp", r.Expand("ll /tmp", NonRecursive()))
}

func TestAliasRegistry_ExpandCycle(t *testing.T) {
	r := NewAliasRegistry()
	r.Define("a", "b")
	r.Define("b", "a")

	// Termination is the contract; the exact resting point is whichever
	// alias the seen-set stops on.
	got := r.Expand("a")
	assert.Contains(t, []string{"a", "b"}, got)

	// Self-referencing alias, the common case (alias ls='ls --color').
	r.Clear()
	r.Define("ls", "ls --color")
	assert.Equal(t, "ls --color /tmp", r.Expand("ls /tmp"))
}

func TestAliasRegistry_ExpandDepthCap(t *testing.T) {
	r := NewAliasRegistry()
	// A linear chain longer than the cap truncates silently.
	r.Define("a0", "a1")
	r.Define("a1", "a2")
	r.Define("a2", "a3")

	got := r.Expand("a0", MaxDepth(2))
	assert.Equal(t, "a2", got)
}

func TestAliasRegistry_ExpandTabDelimited(t *testing.T) {
	r := NewAliasRegistry()
	r.Define("l", "ls")

	assert.Equal(t, "ls -l", r.Expand("l\t-l"))
}
