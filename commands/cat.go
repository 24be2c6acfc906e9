package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Cat concatenates files from the remote filesystem to standard output.
// Without operands it copies stdin.
func Cat(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			data, err := p.ReadAll()
			if err != nil {
				fmt.Fprintf(p.Stderr, "cat: %v\n", err)
				return shell.ExitFailure
			}
			p.Stdout.Write(data)
			return shell.ExitSuccess
		}

		ret := shell.ExitSuccess
		for _, arg := range args {
			data, err := p.Ctx.FS.ReadFile(p.Ctx.ResolvePath(arg))
			if err != nil {
				fmt.Fprintf(p.Stderr, "cat: %v\n", err)
				ret = shell.ExitFailure
				continue
			}
			p.Stdout.Write(data)
		}
		return ret
	})
}

func init() {
	addCmd("cat", Cat)
}
