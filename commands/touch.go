package commands

import (
	"fmt"

	"github.com/agfs-io/agfs-shell/core/shell"
	"github.com/agfs-io/agfs-shell/core/vfs"
)

// Touch creates empty files. Existing files are left untouched since the
// backend has no timestamp-only update.
func Touch(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "touch FILE...",
		Short: "Create the FILE(s) if they do not exist.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintln(p.Stderr, "touch: missing file operand")
			return shell.ExitSyntaxError
		}

		ret := shell.ExitSuccess
		for _, arg := range args {
			resolved := p.Ctx.ResolvePath(arg)
			if vfs.Exists(p.Ctx.FS, resolved) {
				continue
			}
			if err := p.Ctx.FS.WriteFile(resolved, nil, false); err != nil {
				fmt.Fprintf(p.Stderr, "touch: %v\n", err)
				ret = shell.ExitFailure
			}
		}
		return ret
	})
}

func init() {
	addCmd("touch", Touch)
}
