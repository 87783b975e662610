package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/quicktab/pkg/core"
)

type documentSource struct {
	events  <-chan core.Event
	out     chan lifecycle.Event
	pattern string // doublestar pattern on document IDs; empty forwards all
}

// NewSource adapts a document event channel, as returned by
// core.Service.Watch, to a lifecycle.Source.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &documentSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

// NewFilteredSource is like NewSource but only forwards events whose document
// ID matches pattern, e.g. "songs/**".
func NewFilteredSource(events <-chan core.Event, pattern string) (lifecycle.Source, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid document pattern: %q", pattern)
	}
	return &documentSource{
		events:  events,
		out:     make(chan lifecycle.Event),
		pattern: pattern,
	}, nil
}

func (s *documentSource) matches(e core.Event) bool {
	if s.pattern == "" {
		return true
	}
	ok, _ := doublestar.Match(s.pattern, e.ID)
	return ok
}

func (s *documentSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the input channel closes.
// The output channel is closed in both cases.
func (s *documentSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.matches(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
