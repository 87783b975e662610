package main

import (
	"encoding/json"
	"log/slog"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/quicktab"
)

var statusCmd = &cobra.Command{
	Use:   "status [vault]",
	Short: "Print the state of the vault's service and repository as JSON",
	Args:  engineArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		args, engine := splitEngine(cmd, args)
		vault, err := vaultArg(args)
		if err != nil {
			return err
		}

		repo, err := quicktab.Init(vault, quicktab.WithMustExist(true), quicktab.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		if _, err := repo.List(cmd.Context()); err != nil {
			return err
		}
		svc, err := openService(vault, engine)
		if err != nil {
			return err
		}

		state := map[string]any{}
		for _, c := range []any{svc, repo} {
			intro, ok := c.(introspection.Introspectable)
			if !ok {
				continue
			}
			name := "component"
			if comp, ok := c.(introspection.Component); ok {
				name = comp.ComponentType()
			}
			state[name] = intro.State()
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(state)
	},
}

func init() {
	addRenderFlags(statusCmd)
	rootCmd.AddCommand(statusCmd)
}
