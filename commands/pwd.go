package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Pwd prints the working directory.
func Pwd(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the current working directory.",
	}

	return cmd.Run(p, func() int {
		fmt.Fprintln(p.Stdout, p.Ctx.Cwd)
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("pwd", Pwd)
}
