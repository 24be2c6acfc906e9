package commands

import (
	"fmt"
	"sort"

	"github.com/agfs-io/agfs-shell/core/shell"
)

// Stat prints metadata for each operand, including any server-side metadata
// attached to the entry.
func Stat(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "stat FILE...",
		Short: "Display file status.",
	}

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintln(p.Stderr, "stat: missing operand")
			return shell.ExitSyntaxError
		}

		ret := shell.ExitSuccess
		for _, arg := range args {
			info, err := p.Ctx.FS.Stat(p.Ctx.ResolvePath(arg))
			if err != nil {
				fmt.Fprintf(p.Stderr, "stat: %v\n", err)
				ret = shell.ExitFailure
				continue
			}

			kind := "regular file"
			switch {
			case info.IsDir:
				kind = "directory"
			case info.Symlink:
				kind = "symbolic link"
			}

			fmt.Fprintf(p.Stdout, "  File: %s\n", arg)
			fmt.Fprintf(p.Stdout, "  Size: %d\t%s\n", info.Size, kind)
			fmt.Fprintf(p.Stdout, "Access: %s\n", modeString(info))
			if !info.ModTime.IsZero() {
				fmt.Fprintf(p.Stdout, "Modify: %s\n", info.ModTime.Format("2006-01-02 15:04:05 -0700"))
			}
			if len(info.Meta.Content) > 0 {
				keys := make([]string, 0, len(info.Meta.Content))
				for k := range info.Meta.Content {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(p.Stdout, "  Meta: %s=%s\n", k, info.Meta.Content[k])
				}
			}
		}
		return ret
	})
}

func init() {
	addCmd("stat", Stat)
}
