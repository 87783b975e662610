package core

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/quicktab/pkg/quick"
)

const (
	DefaultScale = 0.8
	DefaultWidth = 550

	// FrontmatterKey is the frontmatter map that overrides settings per document.
	FrontmatterKey = "quicktab"
)

// Settings configures how blocks are expanded and rendered.
type Settings struct {
	// Scale and Width are handed to the renderer untouched.
	Scale float64 `yaml:"scale" json:"scale"`
	Width int     `yaml:"width" json:"width"`

	IncludeTabstave bool `yaml:"include_tabstave" json:"include_tabstave"`
	IncludeNotation bool `yaml:"include_notation" json:"include_notation"`

	// EveryStave repeats the defaults line at the start of every stave of a
	// quicktab block instead of only the second one. This changes the output
	// of blocks with three or more staves.
	EveryStave bool `yaml:"defaults_every_stave" json:"defaults_every_stave"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Scale:           DefaultScale,
		Width:           DefaultWidth,
		IncludeTabstave: true,
		IncludeNotation: false,
	}
}

// Validate checks the renderer parameters.
func (s Settings) Validate() error {
	if s.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", s.Scale)
	}
	if s.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", s.Width)
	}
	return nil
}

// Quick returns the options for the defaults resolver.
func (s Settings) Quick() quick.Options {
	return quick.Options{
		IncludeTabstave: s.IncludeTabstave,
		IncludeNotation: s.IncludeNotation,
	}
}

// Layout returns the renderer parameters.
func (s Settings) Layout() Layout {
	return Layout{Scale: s.Scale, Width: s.Width}
}

// Override applies the document's frontmatter overrides (under FrontmatterKey)
// on top of s. Keys that are not present keep the value from s.
func (s Settings) Override(meta Metadata) (Settings, error) {
	raw, ok := meta[FrontmatterKey]
	if !ok || raw == nil {
		return s, nil
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return s, fmt.Errorf("invalid %s frontmatter: %w", FrontmatterKey, err)
	}

	out := s
	if err := yaml.Unmarshal(data, &out); err != nil {
		return s, fmt.Errorf("invalid %s frontmatter: %w", FrontmatterKey, err)
	}
	if err := out.Validate(); err != nil {
		return s, fmt.Errorf("invalid %s frontmatter: %w", FrontmatterKey, err)
	}
	return out, nil
}

// Layout is what the renderer needs to size its canvas.
type Layout struct {
	Scale float64 `json:"scale"`
	Width int     `json:"width"`
}

// Source returns the notation-language source of b under settings s.
// tab and vextab blocks are returned verbatim; quicktab blocks are expanded.
func Source(b Block, s Settings) string {
	if b.Dialect != DialectQuick {
		return b.Source
	}
	d := quick.Resolve(s.Quick())
	if s.EveryStave {
		return quick.ExpandEveryStave(b.Source, d)
	}
	return quick.Expand(b.Source, d)
}
