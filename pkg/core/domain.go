// Package core holds the rendering domain: documents, tab blocks, settings
// and the ports the adapters implement.
package core

import "fmt"

// Metadata represents the flexible key-value pairs of a document's frontmatter.
type Metadata map[string]any

// Document is a Markdown document that may contain tab blocks.
type Document struct {
	ID       string
	Content  string
	Metadata Metadata
	Offset   int // lines before Content in the source file (frontmatter)
}

// Dialect is the info string of a fenced tab block.
type Dialect string

const (
	// DialectTab holds notation-language source verbatim.
	DialectTab Dialect = "tab"
	// DialectVextab is an alias of DialectTab.
	DialectVextab Dialect = "vextab"
	// DialectQuick holds shorthand that is expanded before rendering.
	DialectQuick Dialect = "quicktab"
)

// ParseDialect maps a fenced block info string to a Dialect.
func ParseDialect(info string) (Dialect, bool) {
	switch d := Dialect(info); d {
	case DialectTab, DialectVextab, DialectQuick:
		return d, true
	}
	return "", false
}

// Block is one fenced tab block of a document.
type Block struct {
	DocumentID string
	Index      int // position among the document's tab blocks
	Dialect    Dialect
	Source     string
	Line       int // 1-based line of the opening fence
}

// ID identifies the block across renders, e.g. "songs/intro#0".
func (b Block) ID() string {
	return fmt.Sprintf("%s#%d", b.DocumentID, b.Index)
}

// Artifact is the renderer output for one block.
type Artifact struct {
	DocumentID string
	Index      int
	Format     string // file extension without the dot, e.g. "svg"
	Digest     string
	Data       []byte
}

// BlockID returns the ID of the block the artifact was rendered from.
func (a Artifact) BlockID() string {
	return Block{DocumentID: a.DocumentID, Index: a.Index}.ID()
}

// EventType represents the type of change in the vault.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a document in the vault.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
