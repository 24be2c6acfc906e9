package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Source reads a script from the virtual filesystem and runs it in the
// current shell, so variable, alias and function definitions persist.
func Source(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "source FILE",
		Short: "Execute commands from FILE in the current shell.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintf(p.Stderr, "%s: filename argument required\n", p.Name())
			return shell.ExitSyntaxError
		}

		data, err := p.Ctx.FS.ReadFile(p.Ctx.ResolvePath(args[0]))
		if err != nil {
			fmt.Fprintf(p.Stderr, "%s: %v\n", p.Name(), err)
			return shell.ExitFailure
		}

		// Route script output through this process so sourcing composes
		// with pipelines and redirects.
		sh := p.Shell
		savedIn, savedOut, savedErr := sh.Stdin, sh.Stdout, sh.Stderr
		sh.Stdin, sh.Stdout, sh.Stderr = p.Stdin, p.Stdout, p.Stderr
		defer func() {
			sh.Stdin, sh.Stdout, sh.Stderr = savedIn, savedOut, savedErr
		}()

		return sh.RunScript(string(data))
	})
}

func init() {
	addCmd("source", Source)
	addCmd(".", Source)
}
