package platform

import (
	"log/slog"

	"github.com/aretw0/quicktab/pkg/core"
)

// options holds the internal configuration of a quicktab service.
type options struct {
	repository   core.Repository
	renderer     core.Renderer
	extractor    core.Extractor
	logger       *slog.Logger
	adapter      string
	settings     *core.Settings
	settingsFile string
	concurrency  int
	config       map[string]interface{}
}

// Option defines a functional option for configuring quicktab.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

func resolveOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom storage adapter (e.g. a mock).
// If provided, the filesystem adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithRenderer sets the engine that turns notation source into artifacts.
// Defaults to renderer.Source, which writes the expanded source itself.
func WithRenderer(r core.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithExtractor replaces the Markdown block extractor.
func WithExtractor(e core.Extractor) Option {
	return func(o *options) {
		o.extractor = e
	}
}

// WithSettings sets the vault-wide settings, bypassing quicktab.yaml.
func WithSettings(s core.Settings) Option {
	return func(o *options) {
		o.settings = &s
	}
}

// WithSettingsFile loads settings from path instead of searching for
// quicktab.yaml above the vault.
func WithSettingsFile(path string) Option {
	return func(o *options) {
		o.settingsFile = path
	}
}

// WithConcurrency bounds how many blocks of a document render at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithMustExist ensures the vault directory already exists.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithSystemDir sets the hidden directory holding the index and output.
// Defaults to ".quicktab".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithOutputDir sets where artifacts are written.
// Defaults to {vault}/{system dir}/out.
func WithOutputDir(path string) Option {
	return func(o *options) {
		o.config["output_dir"] = path
	}
}

// WithPattern sets the doublestar pattern selecting documents. Defaults to "**/*.md".
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.config["pattern"] = pattern
	}
}

// WithErrorHandler registers a callback for errors that do not abort an
// operation, such as an unparsable document or a watcher failure.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["error_handler"] = fn
	}
}
