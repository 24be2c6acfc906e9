package commands

import (
	"fmt"
	"strings"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Alias defines aliases or lists them. Without arguments every alias is
// printed in reusable form.
func Alias(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "alias [NAME[=value]]...",
		Short: "Define or display aliases.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			for _, name := range p.Ctx.Aliases.Names() {
				expansion, _ := p.Ctx.Aliases.Get(name)
				fmt.Fprintf(p.Stdout, "alias %s='%s'\n", name, expansion)
			}
			return shell.ExitSuccess
		}

		ret := shell.ExitSuccess
		for _, arg := range args {
			if eq := strings.IndexByte(arg, '='); eq > 0 {
				p.Ctx.Aliases.Define(arg[:eq], strings.Trim(arg[eq+1:], "'\""))
				continue
			}
			expansion, ok := p.Ctx.Aliases.Get(arg)
			if !ok {
				fmt.Fprintf(p.Stderr, "alias: %s: not found\n", arg)
				ret = shell.ExitFailure
				continue
			}
			fmt.Fprintf(p.Stdout, "alias %s='%s'\n", arg, expansion)
		}
		return ret
	})
}

// Unalias removes alias definitions, or all of them with -a.
func Unalias(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "unalias [-a] NAME...",
		Short: "Remove each NAME from the list of defined aliases.",
	}
	all := cmd.Flags().Bool('a', "remove all alias definitions")

	return cmd.Run(p, func() int {
		if *all {
			p.Ctx.Aliases.Clear()
			return shell.ExitSuccess
		}

		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintln(p.Stderr, "unalias: usage: unalias [-a] name [name ...]")
			return shell.ExitSyntaxError
		}

		ret := shell.ExitSuccess
		for _, name := range args {
			if !p.Ctx.Aliases.Delete(name) {
				fmt.Fprintf(p.Stderr, "unalias: %s: not found\n", name)
				ret = shell.ExitFailure
			}
		}
		return ret
	})
}

func init() {
	addCmd("alias", Alias)
	addCmd("unalias", Unalias)
}
