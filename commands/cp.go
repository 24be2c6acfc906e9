package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Cp copies files, and directory trees with -r.
func Cp(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "cp [-r] SOURCE... DEST",
		Short: "Copy SOURCE to DEST.",
	}
	recursive := cmd.Flags().Bool('r', "copy directories recursively")

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) < 2 {
			fmt.Fprintln(p.Stderr, "cp: missing file operand")
			return shell.ExitSyntaxError
		}

		dst := p.Ctx.ResolvePath(args[len(args)-1])
		ret := shell.ExitSuccess
		for _, src := range args[:len(args)-1] {
			if err := p.Ctx.FS.Copy(p.Ctx.ResolvePath(src), dst, *recursive); err != nil {
				fmt.Fprintf(p.Stderr, "cp: %v\n", err)
				ret = shell.ExitFailure
			}
		}
		return ret
	})
}

func init() {
	addCmd("cp", Cp)
}
