package commands

import (
	"fmt"
	"strconv"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Exit requests session shutdown with an optional exit code.
func Exit(p *shell.Process) int {
	code := p.Ctx.Vars.ExitCode()
	if len(p.Args) > 1 {
		parsed, err := strconv.Atoi(p.Args[1])
		if err != nil {
			fmt.Fprintln(p.Stderr, "exit: numeric argument required")
			code = shell.ExitSyntaxError
		} else {
			code = parsed
		}
	}

	p.Shell.RequestExit(code)
	return code
}

func init() {
	addCmd("exit", Exit)
}
