package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string   `json:"repository_type"`
	RendererFormat string   `json:"renderer_format"`
	Concurrency    int      `json:"concurrency"`
	Rendered       int      `json:"rendered"`
	Skipped        int      `json:"skipped"`
	Failed         int      `json:"failed"`
	Settings       Settings `json:"settings"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	format := ""
	if s.renderer != nil {
		format = s.renderer.Format()
	}

	return ServiceState{
		RepositoryType: repoType,
		RendererFormat: format,
		Concurrency:    s.limit,
		Rendered:       s.rendered,
		Skipped:        s.skipped,
		Failed:         s.failed,
		Settings:       s.settings,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
