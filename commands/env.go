package commands

import (
	"fmt"
	"sort"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Env prints the merged variable environment, one NAME=value per line.
func Env(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "env",
		Short: "Print the environment.",
	}

	return cmd.Run(p, func() int {
		all := p.Ctx.Vars.All()
		names := make([]string, 0, len(all))
		for name := range all {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Fprintf(p.Stdout, "%s=%s\n", name, all[name])
		}
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("env", Env)
}
