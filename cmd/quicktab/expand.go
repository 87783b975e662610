package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicktab"
)

var (
	expandTabstave   bool
	expandNotation   bool
	expandEveryStave bool
)

var expandCmd = &cobra.Command{
	Use:   "expand [file]",
	Short: "Expand a quicktab block read from a file or stdin",
	Example: `  printf '4/5 5/5\n\n3/4' | quicktab expand --notation
  quicktab expand riff.qt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := expansionSettings(cmd)
		if err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			in = f
		}

		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		src := strings.TrimSuffix(string(data), "\n")

		fmt.Fprintln(cmd.OutOrStdout(), quicktab.Expand(src, s))
		return nil
	},
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the resolved defaults line",
	Long:  `Print the defaults line inserted by expand. Nothing is printed when no directive is enabled.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := expansionSettings(cmd)
		if err != nil {
			return err
		}
		if line, ok := quicktab.DefaultsFor(s).Line(); ok {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

// expansionSettings loads settings for the working directory and applies
// the directive flags that were set explicitly.
func expansionSettings(cmd *cobra.Command) (quicktab.Settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return quicktab.Settings{}, err
	}
	s, err := loadSettings(wd)
	if err != nil {
		return quicktab.Settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("tabstave") {
		s.IncludeTabstave = expandTabstave
	}
	if flags.Changed("notation") {
		s.IncludeNotation = expandNotation
	}
	if flags.Changed("every-stave") {
		s.EveryStave = expandEveryStave
	}
	return s, nil
}

func init() {
	for _, c := range []*cobra.Command{expandCmd, defaultsCmd} {
		c.Flags().BoolVar(&expandTabstave, "tabstave", true, "Include the tabstave directive")
		c.Flags().BoolVar(&expandNotation, "notation", false, "Include the notation=true directive")
		rootCmd.AddCommand(c)
	}
	expandCmd.Flags().BoolVar(&expandEveryStave, "every-stave", false, "Insert the defaults line at every stave")
}
