package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/agfs-io/agfs-shell/commands"
	"github.com/agfs-io/agfs-shell/core/config"
	"github.com/agfs-io/agfs-shell/core/shell"
	"github.com/agfs-io/agfs-shell/core/vfs"
)

var commandString string

// runCmd starts a session: interactive by default, a single command with
// -c, or a script file given as the argument.
var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Start an interactive session or run a script.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sh := buildShell(cfg)

		switch {
		case commandString != "":
			os.Exit(sh.RunScript(commandString))
		case len(args) == 1:
			script, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			os.Exit(sh.RunScript(string(script)))
		default:
			os.Exit(sh.RunInteractive())
		}
		return nil
	},
}

// buildShell assembles a session from the configuration: filesystem
// backend, seeded environment, startup aliases, and the builtin registry.
func buildShell(cfg *config.Configuration) *shell.Shell {
	var fs vfs.FileSystem
	if cfg.Remote() {
		var opts []vfs.RemoteOption
		if cfg.ThrottleBytesPerSec > 0 {
			opts = append(opts, vfs.WithReadThrottle(cfg.ThrottleBytesPerSec))
		}
		fs = vfs.NewRemote(cfg.ServerURL, opts...)
	} else {
		fs = vfs.NewLocal(cfg.Local.Root)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "agfs"
	}

	env := map[string]string{
		shell.EnvUser:     username(),
		shell.EnvHostname: hostname,
		shell.EnvHome:     "/",
	}
	if cfg.Prompt != "" {
		env[shell.EnvPrompt] = cfg.Prompt
	}
	if cfg.HistFile != "" {
		env[shell.EnvHistFile] = expandTilde(cfg.HistFile)
	}
	for k, v := range cfg.Env {
		env[k] = v
	}

	ctx := shell.NewCommandContext(fs, env)
	for name, expansion := range cfg.Aliases {
		ctx.Aliases.Define(name, expansion)
	}

	return shell.NewShell(ctx,
		shell.WithLookup(commands.Lookup),
		shell.WithHostFS(afero.NewOsFs()))
}

func username() string {
	for _, key := range []string{"USER", "LOGNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "user"
}

func expandTilde(path string) string {
	if len(path) < 2 || path[0] != '~' || path[1] != '/' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func init() {
	runCmd.Flags().StringVarP(&commandString, "command", "c", "", "run this command string and exit")
	rootCmd.AddCommand(runCmd)

	// Keep `agsh` with no subcommand starting a session too.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().StringVarP(&commandString, "command", "c", "", "run this command string and exit")
}
