package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
	"github.com/agfs-io/agfs-shell/core/vfs"
)

// Rm removes files, and directories with -r. -f ignores missing operands.
func Rm(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "rm [-rf] FILE...",
		Short: "Remove the FILE(s).",
	}
	recursive := cmd.Flags().Bool('r', "remove directories and their contents recursively")
	force := cmd.Flags().Bool('f', "ignore nonexistent files, never prompt")

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			if *force {
				return shell.ExitSuccess
			}
			fmt.Fprintln(p.Stderr, "rm: missing operand")
			return shell.ExitSyntaxError
		}

		ret := shell.ExitSuccess
		for _, arg := range args {
			resolved := p.Ctx.ResolvePath(arg)
			if *force && !vfs.Exists(p.Ctx.FS, resolved) {
				continue
			}
			if err := p.Ctx.FS.Remove(resolved, *recursive); err != nil {
				fmt.Fprintf(p.Stderr, "rm: %v\n", err)
				ret = shell.ExitFailure
			}
		}
		return ret
	})
}

func init() {
	addCmd("rm", Rm)
}
