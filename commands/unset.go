package commands

import (
	"github.com/agfs-io/agfs-shell/core/shell"
)

// Unset removes variables, or functions with -f.
func Unset(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "unset [-f] NAME...",
		Short: "Unset values of shell variables or functions.",
	}
	funcs := cmd.Flags().Bool('f', "treat each NAME as a shell function")

	return cmd.Run(p, func() int {
		for _, name := range cmd.Flags().Args() {
			if *funcs {
				p.Ctx.Funcs.Delete(name)
			} else {
				p.Ctx.Vars.Unset(name)
			}
		}
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("unset", Unset)
}
