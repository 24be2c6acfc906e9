package commands

import "github.com/agfs-io/agfs-shell/core/shell"

// False implements the `false` builtin.
func False(p *shell.Process) int {
	return shell.ExitFailure
}

func init() {
	addCmd("false", False)
}
