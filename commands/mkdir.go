package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
	"github.com/agfs-io/agfs-shell/core/vfs"
)

// Mkdir creates directories. The backend always creates missing parents, so
// -p only suppresses the already-exists error.
func Mkdir(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "mkdir [-p] DIRECTORY...",
		Short: "Create the DIRECTORY(ies), if they do not already exist.",
	}
	parents := cmd.Flags().Bool('p', "no error if existing")

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintln(p.Stderr, "mkdir: missing operand")
			return shell.ExitSyntaxError
		}

		ret := shell.ExitSuccess
		for _, arg := range args {
			resolved := p.Ctx.ResolvePath(arg)
			if *parents && vfs.IsDir(p.Ctx.FS, resolved) {
				continue
			}
			if err := p.Ctx.FS.Mkdir(resolved); err != nil {
				fmt.Fprintf(p.Stderr, "mkdir: %v\n", err)
				ret = shell.ExitFailure
			}
		}
		return ret
	})
}

func init() {
	addCmd("mkdir", Mkdir)
}
