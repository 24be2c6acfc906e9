// Package cmd holds the agsh command line interface.
package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/agfs-io/agfs-shell/core/config"
)

var (
	cfgPath   string
	serverURL string
	localRoot string
)

// loadConfig reads the configuration, letting the --server and --local
// flags stand in for (or override) a config file.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(afero.NewOsFs(), cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if serverURL == "" && localRoot == "" {
			log.Println("Couldn't load config: did you run init?")
			return nil, err
		}
		cfg = &config.Configuration{}
	case err != nil:
		return nil, err
	}

	if serverURL != "" {
		cfg.ServerURL = serverURL
	} else if localRoot != "" {
		cfg.ServerURL = ""
	}
	if localRoot != "" {
		cfg.Local.Root = localRoot
	}

	return cfg, cfg.Validate()
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "agsh",
	Short: "Interactive shell over an AGFS filesystem",
	Long: `agsh is a POSIX-like shell whose filesystem commands operate on a
remote AGFS server or a local directory tree.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "AGFS server URL, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&localRoot, "local", "", "local directory to serve as the filesystem root")
}
