package commands

import (
	"fmt"
	"strconv"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// History prints the in-memory command history, optionally limited to the
// last N entries.
func History(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "history [N]",
		Short: "Display the command history list.",
	}

	return cmd.Run(p, func() int {
		entries := p.Shell.History()

		args := cmd.Flags().Args()
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				fmt.Fprintf(p.Stderr, "history: %s: numeric argument required\n", args[0])
				return shell.ExitSyntaxError
			}
			if n < len(entries) {
				entries = entries[len(entries)-n:]
			}
		}

		offset := len(p.Shell.History()) - len(entries)
		for i, entry := range entries {
			fmt.Fprintf(p.Stdout, "%5d  %s\n", offset+i+1, entry)
		}
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("history", History)
}
