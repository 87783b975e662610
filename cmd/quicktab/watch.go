package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicktab/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch [vault]",
	Short: "Render the vault, then re-render documents as they change",
	Args:  engineArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		args, engine := splitEngine(cmd, args)
		vault, err := vaultArg(args)
		if err != nil {
			return err
		}
		svc, err := openService(vault, engine)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		report, err := svc.RenderAll(ctx, false)
		if err != nil {
			return err
		}
		if err := printReport(out, report); err != nil {
			return err
		}

		slog.Info("watching", "vault", vault)
		return follow(ctx, svc, out)
	},
}

func follow(ctx context.Context, svc *core.Service, out io.Writer) error {
	return svc.Follow(ctx, renderPattern, func(e core.Event, report core.Report, err error) {
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", e, err)
			return
		}
		if e.Type == core.EventDelete {
			fmt.Fprintf(out, "%s: artifacts removed\n", e)
			return
		}
		_ = printReport(out, report)
	})
}

func init() {
	addRenderFlags(watchCmd)
	watchCmd.Flags().BoolVar(&renderJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(watchCmd)
}
