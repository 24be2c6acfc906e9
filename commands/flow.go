package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// The interpreter intercepts break, continue and return inside loops and
// functions. These registrations only catch uses outside any enclosing
// construct, matching the shell convention of warning without failing.

func loopOnly(name string) shell.CommandFunc {
	return func(p *shell.Process) int {
		fmt.Fprintf(p.Stderr, "%s: only meaningful in a loop\n", name)
		return shell.ExitSuccess
	}
}

func init() {
	addCmd("break", loopOnly("break"))
	addCmd("continue", loopOnly("continue"))
	addCmd("return", func(p *shell.Process) int {
		fmt.Fprintln(p.Stderr, "return: can only `return' from a function or sourced script")
		return shell.ExitFailure
	})
}
