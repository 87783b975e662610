package quicktab

import (
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/quicktab/internal/platform"
	lifecycleadapter "github.com/aretw0/quicktab/pkg/adapters/lifecycle"
	"github.com/aretw0/quicktab/pkg/core"
	"github.com/aretw0/quicktab/pkg/quick"
)

// --- Types ---

// Service renders the shorthand blocks of a vault.
type Service = core.Service

// Settings configures expansion and rendering.
type Settings = core.Settings

// Defaults is an optional defaults line.
type Defaults = quick.Defaults

// --- Configuration ---

// Option defines a functional option for configuring quicktab.
type Option = platform.Option

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithRenderer sets the rendering engine.
func WithRenderer(r core.Renderer) Option {
	return platform.WithRenderer(r)
}

// WithExtractor replaces the Markdown block extractor.
func WithExtractor(e core.Extractor) Option {
	return platform.WithExtractor(e)
}

// WithSettings sets the vault-wide settings.
func WithSettings(s Settings) Option {
	return platform.WithSettings(s)
}

// WithSettingsFile loads settings from a specific file.
func WithSettingsFile(path string) Option {
	return platform.WithSettingsFile(path)
}

// WithConcurrency bounds concurrent block rendering per document.
func WithConcurrency(n int) Option {
	return platform.WithConcurrency(n)
}

// WithMustExist ensures the vault directory already exists.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir sets the hidden directory name (e.g. ".quicktab").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithOutputDir sets where artifacts are written.
func WithOutputDir(path string) Option {
	return platform.WithOutputDir(path)
}

// WithPattern sets the doublestar pattern selecting documents.
func WithPattern(pattern string) Option {
	return platform.WithPattern(pattern)
}

// WithErrorHandler registers a callback for non-fatal errors.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// --- Factory ---

// New creates a Service for the vault at path.
func New(path string, opts ...Option) (*Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Expansion ---

// DefaultsFor resolves the defaults line for s.
func DefaultsFor(s Settings) Defaults {
	return quick.Resolve(s.Quick())
}

// Expand converts a quicktab block into notation-language source under s.
func Expand(src string, s Settings) string {
	return core.Source(core.Block{Dialect: core.DialectQuick, Source: src}, s)
}

// --- Settings & Utils ---

// LoadSettings reads a quicktab.yaml file over the default settings.
func LoadSettings(path string) (Settings, error) {
	return platform.LoadSettings(path)
}

// DiscoverSettings loads the quicktab.yaml enclosing dir, or the defaults.
func DiscoverSettings(dir string) (Settings, error) {
	return platform.DiscoverSettings(dir)
}

// FindVaultRoot looks upwards for a .quicktab directory or quicktab.yaml.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// NewEventSource adapts a Watch channel to a lifecycle.Source.
func NewEventSource(events <-chan core.Event) lifecycle.Source {
	return lifecycleadapter.NewSource(events)
}

// NewFilteredEventSource is like NewEventSource but only forwards events for
// document IDs matching pattern.
func NewFilteredEventSource(events <-chan core.Event, pattern string) (lifecycle.Source, error) {
	return lifecycleadapter.NewFilteredSource(events, pattern)
}
