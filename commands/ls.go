package commands

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	fcolor "github.com/fatih/color"

	"github.com/agfs-io/agfs-shell/core/shell"
	"github.com/agfs-io/agfs-shell/core/vfs"
)

// Ls lists directory contents.
func Ls(p *shell.Process) int {
	cmd := &SimpleCommand{
		Use:   "ls [OPTION]... [FILE]...",
		Short: "List information about the FILEs (the current directory by default).",
	}
	opts := cmd.Flags()
	listAll := opts.Bool('a', "don't ignore entries starting with .")
	longListing := opts.Bool('l', "use a long listing format")
	humanSize := opts.BoolLong("human-readable", 'h', "print human readable sizes")
	cmd.ShowHelp = opts.BoolLong("help", '?', "show this help and exit")

	var color ColorPrinter
	color.Init(opts, p)

	return cmd.Run(p, func() int {
		targets := opts.Args()
		if len(targets) == 0 {
			targets = append(targets, ".")
		}
		sort.Strings(targets)
		showHeaders := len(targets) > 1

		sizeFmt := func(bytes int64) string {
			return fmt.Sprintf("%d", bytes)
		}
		if *humanSize {
			sizeFmt = BytesToHuman
		}

		exitCode := shell.ExitSuccess
		for i, target := range targets {
			resolved := p.Ctx.ResolvePath(target)

			info, err := p.Ctx.FS.Stat(resolved)
			if err != nil {
				fmt.Fprintf(p.Stderr, "ls: %s: %v\n", target, err)
				exitCode = shell.ExitFailure
				continue
			}

			var entries []vfs.FileInfo
			if info.IsDir {
				entries, err = p.Ctx.FS.ListDir(resolved)
				if err != nil {
					fmt.Fprintf(p.Stderr, "ls: %s: %v\n", target, err)
					exitCode = shell.ExitFailure
					continue
				}
			} else {
				info.Name = path.Base(target)
				entries = []vfs.FileInfo{info}
			}

			if showHeaders {
				if i > 0 {
					fmt.Fprintln(p.Stdout)
				}
				fmt.Fprintf(p.Stdout, "%s:\n", target)
			}

			var kept []vfs.FileInfo
			var totalSize int64
			for _, e := range entries {
				if !*listAll && strings.HasPrefix(e.Name, ".") {
					continue
				}
				kept = append(kept, e)
				totalSize += e.Size
			}

			if *longListing {
				if info.IsDir {
					fmt.Fprintf(p.Stdout, "total %d\n", totalSize)
				}
				tw := tabwriter.NewWriter(p.Stdout, 0, 0, 1, ' ', 0)
				for _, e := range kept {
					name := color.Sprintf(dircolor(e), "%s", e.Name)
					if e.Symlink {
						if target, err := p.Ctx.FS.Readlink(path.Join(resolved, e.Name)); err == nil {
							name += " -> " + target
						}
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
						modeString(e),
						sizeFmt(e.Size),
						lsTime(e.ModTime),
						name)
				}
				tw.Flush()
			} else {
				for _, e := range kept {
					fmt.Fprintln(p.Stdout, color.Sprintf(dircolor(e), "%s", e.Name))
				}
			}
		}
		return exitCode
	})
}

// lsTime renders modification time the way coreutils does: hour and minute
// for the current year, year otherwise.
func lsTime(t time.Time) string {
	if t.Year() >= time.Now().Year() {
		return t.Format("Jan _2 15:04")
	}
	return t.Format("Jan _2 2006")
}

func modeString(e vfs.FileInfo) string {
	mode := os.FileMode(e.Mode)
	if e.IsDir {
		mode |= os.ModeDir
	}
	if e.Symlink {
		mode |= os.ModeSymlink
	}
	return mode.String()
}

// dircolor picks a display color following the common dircolors defaults.
func dircolor(e vfs.FileInfo) *fcolor.Color {
	switch {
	case e.IsDir:
		return ColorBoldBlue
	case e.Symlink:
		return ColorBoldCyan
	case os.FileMode(e.Mode).Perm()&0111 > 0:
		return fcolor.New(fcolor.FgGreen, fcolor.Bold)
	default:
		return fcolor.New(fcolor.FgHiWhite)
	}
}

func init() {
	addCmd("ls", Ls)
}
