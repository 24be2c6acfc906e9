package commands

import (
	"fmt"
	"strings"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Export sets variables in the global environment. `export NAME` creates an
// empty variable if NAME is unset.
func Export(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "export [NAME[=value]]...",
		Short: "Set export attribute for shell variables.",
	}

	return cmd.Run(p, func() int {
		for _, arg := range cmd.Flags().Args() {
			if eq := strings.IndexByte(arg, '='); eq > 0 {
				value := arg[eq+1:]
				p.Ctx.Vars.Export(arg[:eq], &value)
				continue
			}
			if arg == "" || strings.HasPrefix(arg, "=") {
				fmt.Fprintf(p.Stderr, "export: `%s': not a valid identifier\n", arg)
				return shell.ExitFailure
			}
			p.Ctx.Vars.Export(arg, nil)
		}
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("export", Export)
}
