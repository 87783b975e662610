package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many blocks of one document render at once.
const DefaultConcurrency = 4

// Config wires a Service.
type Config struct {
	Repository  Repository
	Renderer    Renderer
	Extractor   Extractor
	Settings    Settings
	Logger      *slog.Logger
	Concurrency int
}

// Service is the integration layer between documents and the renderer.
// Renderer failures never escape it: they are logged and reported in the
// Rendering, and the previously written artifact is left as it was.
type Service struct {
	repo      Repository
	renderer  Renderer
	extractor Extractor
	settings  Settings
	logger    *slog.Logger
	limit     int

	mu       sync.RWMutex
	rendered int
	failed   int
	skipped  int
}

// NewService creates a new Service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Service{
		repo:      cfg.Repository,
		renderer:  cfg.Renderer,
		extractor: cfg.Extractor,
		settings:  cfg.Settings,
		logger:    logger,
		limit:     limit,
	}
}

// Settings returns the vault-wide settings.
func (s *Service) Settings() Settings {
	return s.settings
}

// Rendering is the outcome of rendering one block.
type Rendering struct {
	Block   Block
	Source  string // notation-language source handed to the renderer
	Digest  string
	Output  []byte
	Skipped bool // unchanged since the last successful render
	Err     error
}

// OK reports whether the block rendered successfully.
func (r Rendering) OK() bool {
	return r.Err == nil && !r.Skipped
}

// Report summarizes a render pass.
type Report struct {
	Documents  int
	Renderings []Rendering
}

// Count returns the number of rendered, skipped and failed blocks.
func (r Report) Count() (rendered, skipped, failed int) {
	for _, x := range r.Renderings {
		switch {
		case x.Err != nil:
			failed++
		case x.Skipped:
			skipped++
		default:
			rendered++
		}
	}
	return rendered, skipped, failed
}

func (r *Report) merge(o Report) {
	r.Documents += o.Documents
	r.Renderings = append(r.Renderings, o.Renderings...)
}

// RenderBlock renders a single block with settings st.
func (s *Service) RenderBlock(ctx context.Context, b Block, st Settings) (r Rendering) {
	r = Rendering{Block: b, Source: Source(b, st)}
	if s.renderer == nil {
		r.Err = ErrNoRenderer
		s.recordFailure(b, r.Err)
		return r
	}
	r.Digest = digest(r.Source, st.Layout(), s.renderer.Format())

	defer func() {
		if rec := recover(); rec != nil {
			r.Output = nil
			r.Err = fmt.Errorf("renderer panic: %v", rec)
			s.recordFailure(b, r.Err)
		}
	}()

	out, err := s.renderer.Render(ctx, r.Source, st.Layout())
	if err != nil {
		r.Err = err
		s.recordFailure(b, err)
		return r
	}

	r.Output = out
	s.mu.Lock()
	s.rendered++
	s.mu.Unlock()
	s.logger.Debug("block rendered", "block", b.ID(), "dialect", b.Dialect, "bytes", len(out))
	return r
}

func (s *Service) recordFailure(b Block, err error) {
	s.mu.Lock()
	s.failed++
	s.mu.Unlock()
	s.logger.Error("render failed", "block", b.ID(), "line", b.Line, "error", err)
}

// RenderDocument renders every tab block of the document with the given ID.
// Blocks whose source and layout did not change since the last successful
// render are skipped unless force is set.
func (s *Service) RenderDocument(ctx context.Context, id string, force bool) (Report, error) {
	if id == "" {
		return Report{}, ErrEmptyID
	}
	if s.repo == nil {
		return Report{}, errors.New("no repository configured")
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return Report{}, err
	}
	return s.renderDocument(ctx, doc, force)
}

// RenderAll renders every document of the repository.
// A document that cannot be read or parsed is logged and skipped.
func (s *Service) RenderAll(ctx context.Context, force bool) (Report, error) {
	if s.repo == nil {
		return Report{}, errors.New("no repository configured")
	}
	docs, err := s.repo.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list documents: %w", err)
	}

	var report Report
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r, err := s.renderDocument(ctx, doc, force)
		if err != nil {
			s.logger.Warn("document skipped", "id", doc.ID, "error", err)
			continue
		}
		report.merge(r)
	}
	return report, nil
}

func (s *Service) renderDocument(ctx context.Context, doc Document, force bool) (Report, error) {
	if s.extractor == nil {
		return Report{}, ErrNoExtractor
	}

	st, err := s.settings.Override(doc.Metadata)
	if err != nil {
		return Report{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	blocks, err := s.extractor.Blocks(doc)
	if err != nil {
		return Report{}, fmt.Errorf("failed to extract blocks from %s: %w", doc.ID, err)
	}

	results := make([]Rendering, len(blocks))
	idx, indexed := s.repo.(Indexed)

	g := new(errgroup.Group)
	g.SetLimit(s.limit)
	for i, b := range blocks {
		if !force && indexed && s.renderer != nil {
			src := Source(b, st)
			d := digest(src, st.Layout(), s.renderer.Format())
			if prev, ok := idx.Digest(b.ID()); ok && prev == d {
				results[i] = Rendering{Block: b, Source: src, Digest: d, Skipped: true}
				s.mu.Lock()
				s.skipped++
				s.mu.Unlock()
				continue
			}
		}
		g.Go(func() error {
			results[i] = s.RenderBlock(ctx, b, st)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if !r.OK() {
			continue
		}
		a := Artifact{
			DocumentID: r.Block.DocumentID,
			Index:      r.Block.Index,
			Format:     s.renderer.Format(),
			Digest:     r.Digest,
			Data:       r.Output,
		}
		if err := s.repo.WriteArtifact(ctx, a); err != nil {
			return Report{}, fmt.Errorf("failed to write artifact %s: %w", r.Block.ID(), err)
		}
	}

	if err := s.repo.PruneArtifacts(ctx, doc.ID, len(blocks)); err != nil {
		return Report{}, fmt.Errorf("failed to prune artifacts of %s: %w", doc.ID, err)
	}

	return Report{Documents: 1, Renderings: results}, nil
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// Follow watches the repository and re-renders documents as they change.
// fn is called after every handled event. Follow blocks until ctx is done
// or the event stream closes.
func (s *Service) Follow(ctx context.Context, pattern string, fn func(Event, Report, error)) error {
	events, err := s.Watch(ctx, pattern)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			var (
				report Report
				err    error
			)
			switch e.Type {
			case EventDelete:
				err = s.repo.DeleteArtifacts(ctx, e.ID)
			default:
				report, err = s.RenderDocument(ctx, e.ID, false)
			}
			if err != nil {
				s.logger.Warn("event handling failed", "event", e.String(), "error", err)
			}
			if fn != nil {
				fn(e, report, err)
			}
		}
	}
}

func digest(source string, l Layout, format string) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(l.Scale, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(l.Width)))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}
