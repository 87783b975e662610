// Package markdown reads Markdown documents: YAML frontmatter and the fenced
// tab blocks of the body.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/quicktab/pkg/core"
)

// ErrUnclosedFrontmatter is returned when a document opens a frontmatter
// block but never closes it.
var ErrUnclosedFrontmatter = errors.New("frontmatter started but no closing delimiter found")

// Parse reads a stream and decodes it into a Document.
// Frontmatter must start on the very first line with "---" and end with a
// line holding only "---". The ID is left empty.
func Parse(r io.Reader) (*core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &core.Document{Metadata: make(core.Metadata)}

	first, rest, _ := bytes.Cut(data, []byte("\n"))
	if string(bytes.TrimSuffix(first, []byte("\r"))) != "---" {
		doc.Content = string(data)
		return doc, nil
	}

	// Scan for the closing fence, line by line.
	offset := 1
	var yamlData []byte
	closed := false
	for len(rest) > 0 {
		line, tail, found := bytes.Cut(rest, []byte("\n"))
		offset++
		if string(bytes.TrimSuffix(line, []byte("\r"))) == "---" {
			closed = true
			rest = tail
			if !found {
				rest = nil
			}
			break
		}
		yamlData = append(yamlData, line...)
		yamlData = append(yamlData, '\n')
		rest = tail
		if !found {
			rest = nil
		}
	}
	if !closed {
		return nil, ErrUnclosedFrontmatter
	}

	if err := yaml.Unmarshal(yamlData, &doc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if doc.Metadata == nil {
		doc.Metadata = make(core.Metadata)
	}

	doc.Content = string(rest)
	doc.Offset = offset
	return doc, nil
}
