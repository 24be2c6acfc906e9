package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Jobs lists background jobs with their status.
func Jobs(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "jobs",
		Short: "Display status of background jobs.",
	}

	return cmd.Run(p, func() int {
		for _, job := range p.Shell.Jobs.Jobs() {
			fmt.Fprintf(p.Stdout, "[%d]  %-8s %s\n", job.ID, job.Status(), job.Command)
		}
		return shell.ExitSuccess
	})
}

func init() {
	addCmd("jobs", Jobs)
}
