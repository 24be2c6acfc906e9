// Package commands holds the shell builtins. Each command registers itself
// in init() and runs against a shell.Process.
package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// AllBuiltins maps command names to their implementations.
var AllBuiltins = make(map[string]shell.CommandFunc)

// addCmd registers a builtin, panicking on duplicates so a bad init is
// caught immediately.
func addCmd(name string, cmd shell.CommandFunc) {
	if _, ok := AllBuiltins[name]; ok {
		panic("duplicate builtin: " + name)
	}
	AllBuiltins[name] = cmd
}

// Lookup resolves a builtin by name. Wire this into shell.WithLookup.
func Lookup(name string) (shell.CommandFunc, bool) {
	fn, ok := AllBuiltins[name]
	return fn, ok
}

// Names returns all builtin names sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(AllBuiltins))
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimpleCommand handles flag parsing and help output so individual builtins
// only implement their callback.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not. If this is non-nil
	// when Run() is called, then the default help flag isn't added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}
	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses flags from the process arguments and, on success, calls the
// callback. Args() on the flag set holds the remaining operands.
func (s *SimpleCommand) Run(p *shell.Process, callback func() int) int {
	opts := s.Flags()

	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(p.Args, nil); err != nil {
		fmt.Fprintf(p.Stderr, "%s: %s\n", p.Name(), err)
		s.PrintHelp(p.Stderr)
		return shell.ExitSyntaxError
	}

	if *s.ShowHelp {
		s.PrintHelp(p.Stdout)
		return shell.ExitSuccess
	}

	return callback()
}

// BytesToHuman renders a byte count with a metric suffix for ls -h.
func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue = color.New(color.FgBlue, color.Bold)
	ColorBoldCyan = color.New(color.FgCyan, color.Bold)
)

// ColorPrinter decides whether listing output is colorized based on the
// --color flag and whether stdout is a terminal.
type ColorPrinter struct {
	value *string
	proc  *shell.Process
}

// Init sets up the flag on the command's flag set.
func (c *ColorPrinter) Init(flags *getopt.Set, p *shell.Process) {
	c.proc = p
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch *c.value {
	case colorNever:
		return false
	case colorAlways:
		return true
	default:
		f, ok := c.proc.Stdout.(*os.File)
		return ok && f == os.Stdout
	}
}

func (c *ColorPrinter) Sprintf(col *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return col.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
