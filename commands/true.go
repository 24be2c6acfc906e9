package commands

import "github.com/agfs-io/agfs-shell/core/shell"

// True implements the `true` builtin.
func True(p *shell.Process) int {
	return shell.ExitSuccess
}

func init() {
	addCmd("true", True)
}
