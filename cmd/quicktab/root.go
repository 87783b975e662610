package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicktab"
)

var (
	verbose    bool
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quicktab",
	Short: "Expand guitar-tab shorthand into VexTab and render Markdown vaults",
	Long: `quicktab turns terse tab shorthand into VexTab notation.
It expands single blocks from stdin, or renders every fenced quicktab,
vextab and tab block of a Markdown vault into artifacts.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Settings file (default: nearest quicktab.yaml)")
}

// loadSettings returns the settings of --config, or of the quicktab.yaml
// enclosing dir.
func loadSettings(dir string) (quicktab.Settings, error) {
	if configFile != "" {
		return quicktab.LoadSettings(configFile)
	}
	return quicktab.DiscoverSettings(dir)
}

// vaultArg returns the vault directory argument, or the working directory.
func vaultArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}
