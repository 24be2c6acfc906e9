package commands

import (
	"fmt"
	"strings"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Echo implements the `echo` builtin with -n and -e.
func Echo(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "echo [-neE] [arg ...]",
		Short: "Write arguments to standard output.",
	}
	noNewline := cmd.Flags().Bool('n', "do not output the trailing newline")
	interpret := cmd.Flags().Bool('e', "enable interpretation of backslash escapes")

	return cmd.Run(p, func() int {
		out := strings.Join(cmd.Flags().Args(), " ")
		if *interpret {
			out = shell.ProcessEscapes(out)
		}
		if *noNewline {
			fmt.Fprint(p.Stdout, out)
		} else {
			fmt.Fprintln(p.Stdout, out)
		}
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("echo", Echo)
}
