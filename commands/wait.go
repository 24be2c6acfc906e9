package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Wait blocks until background jobs finish. Without arguments it waits for
// all of them; with a job id (optionally %-prefixed) it returns that job's
// exit code.
func Wait(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "wait [ID]...",
		Short: "Wait for background jobs to finish.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			p.Shell.Jobs.WaitAll()
			return shell.ExitSuccess
		}

		ret := shell.ExitSuccess
		for _, arg := range args {
			id, err := strconv.Atoi(strings.TrimPrefix(arg, "%"))
			if err != nil {
				fmt.Fprintf(p.Stderr, "wait: %s: not a valid job id\n", arg)
				return shell.ExitSyntaxError
			}
			code, ok := p.Shell.Jobs.Wait(id)
			if !ok {
				fmt.Fprintf(p.Stderr, "wait: %%%d: no such job\n", id)
				ret = shell.ExitFailure
				continue
			}
			ret = code
		}
		return ret
	})
}

func init() {
	addCmd("wait", Wait)
}
