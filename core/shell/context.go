package shell

import (
	"path"
	"strings"

	"github.com/agfs-io/agfs-shell/core/vfs"
)

// CommandContext carries everything a command needs to execute: working
// directory, variable state, registries, and the filesystem handle. It is
// passed explicitly into each execution unit; there is no ambient global.
type CommandContext struct {
	Cwd        string
	Vars       *VariableManager
	Aliases    *AliasRegistry
	Funcs      *FunctionRegistry
	FS         vfs.FileSystem
	ChrootRoot string
}

// NewCommandContext returns a context rooted at "/" with fresh registries.
func NewCommandContext(fs vfs.FileSystem, env map[string]string) *CommandContext {
	return &CommandContext{
		Cwd:     "/",
		Vars:    NewVariableManager(env),
		Aliases: NewAliasRegistry(),
		Funcs:   NewFunctionRegistry(),
		FS:      fs,
	}
}

// ResolvePath turns a possibly-relative path into an absolute, normalized
// one. With a chroot root set, user-visible paths are confined under it and
// the returned path is the real backend path.
func (c *CommandContext) ResolvePath(p string) string {
	if p == "" {
		p = c.Cwd
	}

	virtual := p
	if !strings.HasPrefix(virtual, "/") {
		virtual = path.Join(c.Cwd, virtual)
	}
	virtual = path.Clean(virtual)
	if !strings.HasPrefix(virtual, "/") {
		virtual = "/" + virtual
	}

	if c.ChrootRoot == "" {
		return virtual
	}
	return path.Clean(path.Join(c.ChrootRoot, strings.TrimPrefix(virtual, "/")))
}

// Chdir updates the working directory after verifying the target exists and
// is a directory.
func (c *CommandContext) Chdir(p string) error {
	resolved := c.ResolvePath(p)
	info, err := c.FS.Stat(resolved)
	if err != nil {
		return err
	}
	if !info.IsDir {
		return &vfs.PathError{Op: "cd", Path: p, Err: vfs.ErrNotDir}
	}

	// Track the virtual path, not the chroot-expanded one.
	virtual := p
	if !strings.HasPrefix(virtual, "/") {
		virtual = path.Join(c.Cwd, virtual)
	}
	c.Cwd = path.Clean(virtual)
	if !strings.HasPrefix(c.Cwd, "/") {
		c.Cwd = "/" + c.Cwd
	}
	c.Vars.Set("PWD", c.Cwd, false)
	return nil
}

// GetVariable looks a variable up through the scope chain.
func (c *CommandContext) GetVariable(name string) string {
	return c.Vars.Get(name)
}

// SetVariable assigns a variable, locally when requested.
func (c *CommandContext) SetVariable(name, value string, local bool) {
	c.Vars.Set(name, value, local)
}

// PushLocalScope enters a local variable scope.
func (c *CommandContext) PushLocalScope() {
	c.Vars.PushScope()
}

// PopLocalScope leaves the innermost scope; a no-op with none active.
func (c *CommandContext) PopLocalScope() {
	c.Vars.PopScope()
}
