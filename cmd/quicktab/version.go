package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicktab"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quicktab",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quicktab version %s\n", strings.TrimSpace(quicktab.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
