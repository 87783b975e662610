package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/quicktab/pkg/adapters/markdown"
	"github.com/aretw0/quicktab/pkg/core"
)

const (
	DefaultSystemDir = ".quicktab"
	DefaultPattern   = "**/*.md"
	documentExt      = ".md"
)

// Repository implements core.Repository on a directory of Markdown files.
// Artifacts are written to {OutputDir}/{document ID}/{index}.{format}.
type Repository struct {
	Path   string
	config Config
	cache  *cache
	logger *slog.Logger

	mu            sync.RWMutex
	watcherActive bool
	lastScan      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	SystemDir string // e.g. ".quicktab"; holds the index and, by default, the output
	OutputDir string // defaults to {Path}/{SystemDir}/out
	Pattern   string // doublestar pattern of documents, relative to Path
	MustExist bool
	Logger    *slog.Logger

	// ErrorHandler receives errors that do not abort an operation, such as
	// an unparsable document during List or a watcher failure.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if config.OutputDir == "" {
		config.OutputDir = filepath.Join(config.Path, config.SystemDir, "out")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
		logger: logger,
	}
}

// Initialize checks the vault directory, creates the output directory and
// loads the artifact index.
func (r *Repository) Initialize(ctx context.Context) error {
	if !doublestar.ValidatePattern(r.config.Pattern) {
		return fmt.Errorf("invalid document pattern: %q", r.config.Pattern)
	}

	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	} else if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	if err := os.MkdirAll(r.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return r.cache.Load()
}

// List returns every document matching the configured pattern, sorted by ID.
// Files that cannot be parsed are reported to the ErrorHandler and skipped.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	matches, err := doublestar.Glob(os.DirFS(r.Path), r.config.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %q: %w", r.config.Pattern, err)
	}
	sort.Strings(matches)

	var docs []core.Document
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.isSystemPath(rel) || path.Ext(rel) != documentExt {
			continue
		}
		doc, err := r.read(rel)
		if err != nil {
			r.reportError(err)
			continue
		}
		docs = append(docs, doc)
	}

	now := time.Now()
	r.mu.Lock()
	r.lastScan = &now
	r.mu.Unlock()

	return docs, nil
}

// Get retrieves a document by ID (its slash-separated path without ".md").
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	rel, err := r.relPath(id)
	if err != nil {
		return core.Document{}, err
	}
	return r.read(rel)
}

func (r *Repository) read(rel string) (core.Document, error) {
	id := strings.TrimSuffix(rel, documentExt)

	f, err := os.Open(filepath.Join(r.Path, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Document{}, err
	}
	defer f.Close()

	doc, err := markdown.Parse(f)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse document %s: %w", id, err)
	}
	doc.ID = id
	return *doc, nil
}

// WriteArtifact implements core.Repository.
func (r *Repository) WriteArtifact(ctx context.Context, a core.Artifact) error {
	dir, err := r.artifactDir(a.DocumentID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	target := filepath.Join(dir, artifactName(a.Index, a.Format))
	if err := writeFileAtomic(target, a.Data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	r.logger.Debug("artifact written", "block", a.BlockID(), "path", target)

	r.cache.Set(a.BlockID(), &indexEntry{
		DocumentID: a.DocumentID,
		Index:      a.Index,
		Format:     a.Format,
		Digest:     a.Digest,
		RenderedAt: time.Now(),
	})
	return r.cache.Save()
}

// PruneArtifacts implements core.Repository.
// Only files named {index}.{ext} directly inside the document's directory are
// considered, so artifacts of nested documents are left alone.
func (r *Repository) PruneArtifacts(ctx context.Context, documentID string, keep int) error {
	dir, err := r.artifactDir(documentID)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, ok := artifactIndex(e.Name())
		if !ok || n < keep {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove artifact: %w", err)
		}
	}

	r.cache.DeleteFunc(func(_ string, e *indexEntry) bool {
		return e.DocumentID == documentID && e.Index >= keep
	})
	return r.cache.Save()
}

// DeleteArtifacts implements core.Repository.
func (r *Repository) DeleteArtifacts(ctx context.Context, documentID string) error {
	if err := r.PruneArtifacts(ctx, documentID, 0); err != nil {
		return err
	}
	dir, _ := r.artifactDir(documentID)
	_ = os.Remove(dir) // only succeeds when empty
	return nil
}

// Digest implements core.Indexed. An entry whose artifact is missing from
// the output directory (deleted, or written to another OutputDir) is not
// reported, so the block is rendered again.
func (r *Repository) Digest(blockID string) (string, bool) {
	e, ok := r.cache.Get(blockID)
	if !ok {
		return "", false
	}
	p, err := r.ArtifactPath(e.DocumentID, e.Index, e.Format)
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return e.Digest, true
}

// ArtifactPath returns where the artifact of a block is written.
func (r *Repository) ArtifactPath(documentID string, index int, format string) (string, error) {
	dir, err := r.artifactDir(documentID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, artifactName(index, format)), nil
}

func (r *Repository) relPath(id string) (string, error) {
	if id == "" {
		return "", core.ErrEmptyID
	}
	rel := id + documentExt
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("invalid document ID: %q", id)
	}
	return rel, nil
}

func (r *Repository) artifactDir(documentID string) (string, error) {
	if documentID == "" {
		return "", core.ErrEmptyID
	}
	if !filepath.IsLocal(filepath.FromSlash(documentID)) {
		return "", fmt.Errorf("invalid document ID: %q", documentID)
	}
	return filepath.Join(r.config.OutputDir, filepath.FromSlash(documentID)), nil
}

func (r *Repository) isSystemPath(rel string) bool {
	return rel == r.config.SystemDir || strings.HasPrefix(rel, r.config.SystemDir+"/")
}

func (r *Repository) reportError(err error) {
	r.logger.Warn("document skipped", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

func artifactName(index int, format string) string {
	return strconv.Itoa(index) + "." + format
}

func artifactIndex(name string) (int, bool) {
	base, _, ok := strings.Cut(name, ".")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(base)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
