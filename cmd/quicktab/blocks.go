package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/quicktab"
	"github.com/aretw0/quicktab/pkg/adapters/markdown"
	"github.com/aretw0/quicktab/pkg/core"
)

var (
	blocksJSON    bool
	blocksPattern string
)

type blockView struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Index    int    `json:"index"`
	Dialect  string `json:"dialect"`
	Line     int    `json:"line"`
	Source   string `json:"source"`
}

var blocksCmd = &cobra.Command{
	Use:   "blocks [vault]",
	Short: "List the tab blocks of a vault",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, err := vaultArg(args)
		if err != nil {
			return err
		}
		s, err := loadSettings(vault)
		if err != nil {
			return err
		}

		repo, err := quicktab.Init(vault,
			quicktab.WithMustExist(true),
			quicktab.WithPattern(blocksPattern),
			quicktab.WithLogger(slog.Default()),
		)
		if err != nil {
			return err
		}

		docs, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}

		extractor := markdown.NewExtractor()
		var views []blockView
		for _, doc := range docs {
			st, err := s.Override(doc.Metadata)
			if err != nil {
				slog.Warn("document skipped", "id", doc.ID, "error", err)
				continue
			}
			blocks, err := extractor.Blocks(doc)
			if err != nil {
				slog.Warn("document skipped", "id", doc.ID, "error", err)
				continue
			}
			for _, b := range blocks {
				views = append(views, blockView{
					ID:       b.ID(),
					Document: b.DocumentID,
					Index:    b.Index,
					Dialect:  string(b.Dialect),
					Line:     b.Line,
					Source:   core.Source(b, st),
				})
			}
		}

		out := cmd.OutOrStdout()
		if blocksJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(views)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "BLOCK\tDIALECT\tLINE")
		for _, v := range views {
			fmt.Fprintf(w, "%s\t%s\t%d\n", v.ID, v.Dialect, v.Line)
		}
		return w.Flush()
	},
}

func init() {
	blocksCmd.Flags().BoolVar(&blocksJSON, "json", false, "Output in JSON format")
	blocksCmd.Flags().StringVar(&blocksPattern, "pattern", "", "Documents to include (default **/*.md)")
	rootCmd.AddCommand(blocksCmd)
}
