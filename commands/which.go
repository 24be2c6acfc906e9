package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Which reports whether each NAME resolves to a builtin. There is no PATH
// of external executables to search.
func Which(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "which NAME...",
		Short: "Locate a command.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			return shell.ExitFailure
		}

		ret := shell.ExitSuccess
		for _, name := range args {
			if _, ok := Lookup(name); ok {
				fmt.Fprintf(p.Stdout, "%s: shell built-in command\n", name)
				continue
			}
			fmt.Fprintf(p.Stderr, "which: no %s in builtins\n", name)
			ret = shell.ExitFailure
		}
		return ret
	})
}

func init() {
	addCmd("which", Which)
}
