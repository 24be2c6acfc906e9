package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
	"github.com/agfs-io/agfs-shell/core/vfs"
)

// Rmdir removes empty directories.
func Rmdir(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "rmdir DIRECTORY...",
		Short: "Remove the DIRECTORY(ies), if they are empty.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintln(p.Stderr, "rmdir: missing operand")
			return shell.ExitSyntaxError
		}

		ret := shell.ExitSuccess
		for _, arg := range args {
			resolved := p.Ctx.ResolvePath(arg)

			info, err := p.Ctx.FS.Stat(resolved)
			switch {
			case err != nil:
				fmt.Fprintf(p.Stderr, "rmdir: %v\n", err)
				ret = shell.ExitFailure
				continue
			case !info.IsDir:
				fmt.Fprintf(p.Stderr, "rmdir: %s: %v\n", arg, vfs.ErrNotDir)
				ret = shell.ExitFailure
				continue
			}

			entries, err := p.Ctx.FS.ListDir(resolved)
			if err != nil {
				fmt.Fprintf(p.Stderr, "rmdir: %v\n", err)
				ret = shell.ExitFailure
				continue
			}
			if len(entries) > 0 {
				fmt.Fprintf(p.Stderr, "rmdir: %s: %v\n", arg, vfs.ErrNotEmpty)
				ret = shell.ExitFailure
				continue
			}

			if err := p.Ctx.FS.Remove(resolved, true); err != nil {
				fmt.Fprintf(p.Stderr, "rmdir: %v\n", err)
				ret = shell.ExitFailure
			}
		}
		return ret
	})
}

func init() {
	addCmd("rmdir", Rmdir)
}
