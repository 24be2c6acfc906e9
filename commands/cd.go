package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Cd changes the working directory. Without an operand it goes to $HOME;
// `cd -` returns to $OLDPWD.
func Cd(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "cd [DIR]",
		Short: "Change the current working directory.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()

		target := ""
		switch {
		case len(args) == 0:
			target = p.Ctx.Vars.Get("HOME")
			if target == "" {
				target = "/"
			}
		case args[0] == "-":
			target = p.Ctx.Vars.Get("OLDPWD")
			if target == "" {
				fmt.Fprintln(p.Stderr, "cd: OLDPWD not set")
				return shell.ExitFailure
			}
			fmt.Fprintln(p.Stdout, target)
		default:
			target = args[0]
		}

		oldpwd := p.Ctx.Cwd
		if err := p.Ctx.Chdir(target); err != nil {
			fmt.Fprintf(p.Stderr, "cd: %v\n", err)
			return shell.ExitFailure
		}
		p.Ctx.Vars.Set("OLDPWD", oldpwd, false)
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("cd", Cd)
}
