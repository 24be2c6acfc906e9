package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Ln creates symbolic links. Hard links are not supported by the backend,
// so -s is required.
func Ln(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "ln -s TARGET LINK_NAME",
		Short: "Create a symbolic link to TARGET with the name LINK_NAME.",
	}
	symbolic := cmd.Flags().Bool('s', "make symbolic links instead of hard links")

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) != 2 {
			fmt.Fprintln(p.Stderr, "ln: expected TARGET and LINK_NAME operands")
			return shell.ExitSyntaxError
		}
		if !*symbolic {
			fmt.Fprintln(p.Stderr, "ln: hard links are not supported, use -s")
			return shell.ExitFailure
		}

		// The target string is stored verbatim so relative links resolve
		// against the link's own directory.
		if err := p.Ctx.FS.Symlink(args[0], p.Ctx.ResolvePath(args[1])); err != nil {
			fmt.Fprintf(p.Stderr, "ln: %v\n", err)
			return shell.ExitFailure
		}
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("ln", Ln)
}
