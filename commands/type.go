package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

var shellKeywords = map[string]bool{
	"if": true, "then": true, "elif": true, "else": true, "fi": true,
	"for": true, "while": true, "until": true, "do": true, "done": true,
	"in": true, "function": true,
}

// Type reports how each NAME would be interpreted, checking aliases first,
// then keywords, functions and builtins, matching command resolution order.
func Type(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "type NAME...",
		Short: "Display information about command type.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintln(p.Stderr, "type: missing operand")
			return shell.ExitSyntaxError
		}

		ret := shell.ExitSuccess
		for _, name := range args {
			switch {
			case p.Ctx.Aliases.Exists(name):
				expansion, _ := p.Ctx.Aliases.Get(name)
				fmt.Fprintf(p.Stdout, "%s is aliased to `%s'\n", name, expansion)
			case shellKeywords[name]:
				fmt.Fprintf(p.Stdout, "%s is a shell keyword\n", name)
			case p.Ctx.Funcs.Exists(name):
				fmt.Fprintf(p.Stdout, "%s is a function\n", name)
			default:
				if _, ok := Lookup(name); ok {
					fmt.Fprintf(p.Stdout, "%s is a shell builtin\n", name)
					continue
				}
				fmt.Fprintf(p.Stderr, "type: %s: not found\n", name)
				ret = shell.ExitFailure
			}
		}
		return ret
	})
}

func init() {
	addCmd("type", Type)
}
