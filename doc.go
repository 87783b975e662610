// Package quicktab expands guitar-tab shorthand into VexTab notation and
// renders the fenced blocks of a Markdown vault.
//
// A quicktab block is terse: each line is a run of notes, and blank lines
// separate staves. Expansion prefixes plain lines with "notes", leaves lines
// that already start with a keyword (notes, text, options) alone, and adds a
// configurable defaults line (e.g. "tabstave notation=true") at the top of the
// block and after the first blank line.
//
// The package is the composition root. It wires the core service to the
// filesystem vault, the goldmark block extractor and a renderer using
// functional options.
//
// Usage:
//
//	svc, err := quicktab.New("./songs",
//		quicktab.WithRenderer(renderer.NewExec("vextab-render", "svg")),
//		quicktab.WithLogger(logger),
//	)
//
//	report, err := svc.RenderAll(ctx, false)
//
// Vault-wide settings live in quicktab.yaml; a document can override them
// under a "quicktab" frontmatter key.
package quicktab
