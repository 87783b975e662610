package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicktab"
	"github.com/aretw0/quicktab/pkg/adapters/renderer"
	"github.com/aretw0/quicktab/pkg/core"
)

var (
	renderExec        string
	renderFormat      string
	renderForce       bool
	renderJSON        bool
	renderOutDir      string
	renderPattern     string
	renderConcurrency int
)

type renderingView struct {
	Block   string `json:"block"`
	Line    int    `json:"line"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

var renderCmd = &cobra.Command{
	Use:   "render [vault] [-- engine args...]",
	Short: "Render every tab block of a vault",
	Long: `Render every quicktab, vextab and tab block of the vault's Markdown documents.

Without --exec the expanded VexTab source is written as .vextab artifacts.
With --exec the source is piped to the given command, which receives
--scale and --width flags and must write the graphic to stdout.
--exec is split on whitespace and does not understand quotes; for arguments
containing spaces pass the engine argv after "--" instead.`,
	Example: `  quicktab render ./songs
  quicktab render ./songs --exec "vextab-render" --format svg
  quicktab render ./songs --format png -- node "my renderer.js" --theme dark`,
	Args: engineArgs,
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

		report, err := svc.RenderAll(cmd.Context(), renderForce)
		if err != nil {
			return err
		}
		if err := printReport(cmd.OutOrStdout(), report); err != nil {
			return err
		}

		if _, _, failed := report.Count(); failed > 0 {
			return fmt.Errorf("%d block(s) failed to render", failed)
		}
		return nil
	},
}

// engineArgs accepts at most one vault argument before "--" and any number
// of engine arguments after it.
func engineArgs(cmd *cobra.Command, args []string) error {
	vaultArgs, _ := splitEngine(cmd, args)
	if len(vaultArgs) > 1 {
		return fmt.Errorf("accepts at most 1 vault argument, received %d", len(vaultArgs))
	}
	return nil
}

// splitEngine separates the vault argument from the engine argv given after "--".
func splitEngine(cmd *cobra.Command, args []string) (vaultArgs, engine []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 || dash > len(args) {
		return args, nil
	}
	return args[:dash], args[dash:]
}

// openService wires a Service from the render flags and the optional engine
// argv, shared by render, watch and status.
func openService(vault string, engine []string) (*quicktab.Service, error) {
	opts := []quicktab.Option{
		quicktab.WithMustExist(true),
		quicktab.WithLogger(slog.Default()),
		quicktab.WithPattern(renderPattern),
		quicktab.WithConcurrency(renderConcurrency),
	}
	if configFile != "" {
		opts = append(opts, quicktab.WithSettingsFile(configFile))
	}
	if renderOutDir != "" {
		opts = append(opts, quicktab.WithOutputDir(renderOutDir))
	}
	switch {
	case len(engine) > 0 && renderExec != "":
		return nil, errors.New("use either --exec or an engine after --, not both")
	case len(engine) > 0:
		opts = append(opts, quicktab.WithRenderer(renderer.NewExec(engine[0], renderFormat, engine[1:]...)))
	case renderExec != "":
		r, err := renderer.ParseCommand(renderExec, renderFormat)
		if err != nil {
			return nil, err
		}
		opts = append(opts, quicktab.WithRenderer(r))
	}
	return quicktab.New(vault, opts...)
}

func printReport(out io.Writer, report core.Report) error {
	if renderJSON {
		views := make([]renderingView, 0, len(report.Renderings))
		for _, r := range report.Renderings {
			v := renderingView{Block: r.Block.ID(), Line: r.Block.Line, Status: status(r), Skipped: r.Skipped}
			if r.Err != nil {
				v.Error = r.Err.Error()
			}
			views = append(views, v)
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(views)
	}

	for _, r := range report.Renderings {
		if r.Err != nil {
			fmt.Fprintf(out, "%-8s %s (line %d): %v\n", status(r), r.Block.ID(), r.Block.Line, r.Err)
			continue
		}
		fmt.Fprintf(out, "%-8s %s\n", status(r), r.Block.ID())
	}
	rendered, skipped, failed := report.Count()
	fmt.Fprintf(out, "%d document(s): %d rendered, %d unchanged, %d failed\n", report.Documents, rendered, skipped, failed)
	return nil
}

func status(r core.Rendering) string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Skipped:
		return "unchanged"
	default:
		return "rendered"
	}
}

func addRenderFlags(c *cobra.Command) {
	c.Flags().StringVar(&renderExec, "exec", "", "Renderer command receiving VexTab on stdin (split on whitespace, no quoting)")
	c.Flags().StringVar(&renderFormat, "format", renderer.DefaultFormat, "Artifact extension produced by --exec")
	c.Flags().StringVar(&renderOutDir, "out", "", "Output directory (default <vault>/.quicktab/out)")
	c.Flags().StringVar(&renderPattern, "pattern", "", "Documents to include (default **/*.md)")
	c.Flags().IntVar(&renderConcurrency, "concurrency", core.DefaultConcurrency, "Blocks rendered at once per document")
}

func init() {
	addRenderFlags(renderCmd)
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "Output in JSON format")
	renderCmd.Flags().BoolVar(&renderForce, "force", false, "Render blocks even if unchanged")
	rootCmd.AddCommand(renderCmd)
}
