package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Mv renames files or moves them into a directory.
func Mv(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "mv SOURCE... DEST",
		Short: "Rename SOURCE to DEST, or move SOURCE(s) to DIRECTORY.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) < 2 {
			fmt.Fprintln(p.Stderr, "mv: missing file operand")
			return shell.ExitSyntaxError
		}

		dst := p.Ctx.ResolvePath(args[len(args)-1])
		ret := shell.ExitSuccess
		for _, src := range args[:len(args)-1] {
			if err := p.Ctx.FS.Move(p.Ctx.ResolvePath(src), dst); err != nil {
				fmt.Fprintf(p.Stderr, "mv: %v\n", err)
				ret = shell.ExitFailure
			}
		}
		return ret
	})
}

func init() {
	addCmd("mv", Mv)
}
