package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/aretw0/quicktab/pkg/core"
)

// Extractor finds fenced tab blocks using the goldmark parser, so fences
// nested in lists or block quotes are found and code spans are ignored.
type Extractor struct {
	md goldmark.Markdown
}

// NewExtractor creates an Extractor with GitHub Flavored Markdown enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Blocks implements core.Extractor.
func (e *Extractor) Blocks(doc core.Document) ([]core.Block, error) {
	src := []byte(doc.Content)
	root := e.md.Parser().Parse(text.NewReader(src))

	var blocks []core.Block
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		dialect, ok := core.ParseDialect(strings.TrimSpace(string(fence.Language(src))))
		if !ok {
			return ast.WalkSkipChildren, nil
		}

		blocks = append(blocks, core.Block{
			DocumentID: doc.ID,
			Index:      len(blocks),
			Dialect:    dialect,
			Source:     fenceBody(fence, src),
			Line:       doc.Offset + fenceLine(fence, src),
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown: %w", err)
	}
	return blocks, nil
}

// fenceBody joins the block lines without the final newline. CRLF line
// endings are normalized to LF so blank lines still separate staves.
func fenceBody(fence *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	body := strings.ReplaceAll(buf.String(), "\r\n", "\n")
	return strings.TrimSuffix(body, "\n")
}

// fenceLine returns the 1-based line of the opening fence.
func fenceLine(fence *ast.FencedCodeBlock, src []byte) int {
	if fence.Info == nil {
		return 0
	}
	return bytes.Count(src[:fence.Info.Segment.Start], []byte("\n")) + 1
}
