package platform

import (
	"github.com/aretw0/quicktab/pkg/adapters/markdown"
	"github.com/aretw0/quicktab/pkg/adapters/renderer"
	"github.com/aretw0/quicktab/pkg/core"
)

// New wires a Service for the vault at uri:
//
//	svc, err := quicktab.New("./songs", quicktab.WithRenderer(r))
//
// Settings come from WithSettings, else WithSettingsFile, else the nearest
// quicktab.yaml above uri, else core.DefaultSettings.
func New(uri string, opts ...Option) (*core.Service, error) {
	o := resolveOptions(opts)

	settings, err := resolveSettings(uri, o)
	if err != nil {
		return nil, err
	}

	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	r := o.renderer
	if r == nil {
		r = renderer.Source{}
	}
	extractor := o.extractor
	if extractor == nil {
		extractor = markdown.NewExtractor()
	}

	if o.logger != nil {
		o.logger.Debug("service ready", "vault", uri, "format", r.Format(), "scale", settings.Scale, "width", settings.Width)
	}

	return core.NewService(core.Config{
		Repository:  repo,
		Renderer:    r,
		Extractor:   extractor,
		Settings:    settings,
		Logger:      o.logger,
		Concurrency: o.concurrency,
	}), nil
}

func resolveSettings(uri string, o *options) (core.Settings, error) {
	if o.settings != nil {
		if err := o.settings.Validate(); err != nil {
			return core.Settings{}, wrapInvalid(err)
		}
		return *o.settings, nil
	}
	if o.settingsFile != "" {
		return LoadSettings(o.settingsFile)
	}
	return DiscoverSettings(uri)
}
