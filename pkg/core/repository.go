package core

import "context"

// Repository defines the contract for reading documents and storing the
// rendered artifacts of their tab blocks.
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g., create directories).
	Initialize(ctx context.Context) error

	// List returns all documents.
	List(ctx context.Context) ([]Document, error)

	// Get retrieves a document by its ID.
	Get(ctx context.Context, id string) (Document, error)

	// WriteArtifact stores the output of one block, replacing any previous one.
	WriteArtifact(ctx context.Context, a Artifact) error

	// PruneArtifacts removes the artifacts of a document whose index is >= keep.
	PruneArtifacts(ctx context.Context, documentID string, keep int) error

	// DeleteArtifacts removes every artifact of a document.
	DeleteArtifacts(ctx context.Context, documentID string) error
}

// Indexed is implemented by repositories that remember the digest of the
// last artifact written for a block.
type Indexed interface {
	Digest(blockID string) (string, bool)
}

// Watchable is implemented by repositories that can report document changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Extractor finds the tab blocks of a document.
type Extractor interface {
	Blocks(doc Document) ([]Block, error)
}

// Renderer is the external notation engine.
// Render receives notation-language source and returns the rendered graphic.
type Renderer interface {
	Render(ctx context.Context, source string, layout Layout) ([]byte, error)
	// Format is the file extension of the rendered output, e.g. "svg".
	Format() string
}
