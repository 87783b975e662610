package renderer

import (
	"context"

	"github.com/aretw0/quicktab/pkg/core"
)

// SourceFormat is the artifact extension written by Source.
const SourceFormat = "vextab"

// Source is a renderer that emits the notation source itself, for handing
// the expanded blocks to an engine running elsewhere (a browser, a build step).
type Source struct{}

// Format implements core.Renderer.
func (Source) Format() string {
	return SourceFormat
}

// Render implements core.Renderer.
func (Source) Render(ctx context.Context, source string, _ core.Layout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if source == "" || source[len(source)-1] != '\n' {
		source += "\n"
	}
	return []byte(source), nil
}

var _ core.Renderer = Source{}
