package config

import (
	"errors"

	"github.com/bgeneto/flux-image-gen/pkg/limiter"
	"github.com/bgeneto/flux-image-gen/pkg/otel"
	"github.com/bgeneto/flux-image-gen/pkg/pipe"
	"github.com/bgeneto/flux-image-gen/pkg/provider"
	"github.com/bgeneto/flux-image-gen/pkg/provider/flux"
)

func (cfg *Config) RegisterRenderer(id, name string, p provider.Renderer) {
	if cfg.renderer == nil {
		cfg.renderer = make(map[string]provider.Renderer)
	}

	if _, found := cfg.renderer[id]; !found {
		cfg.models = append(cfg.models, provider.Model{
			ID:   id,
			Name: name,
		})
	}

	cfg.renderer[id] = p
}

func (cfg *Config) Renderer(id string) (provider.Renderer, error) {
	if p, found := cfg.renderer[id]; found {
		return p, nil
	}

	return nil, errors.New("unknown model: " + id)
}

func (cfg *Config) Models() []provider.Model {
	return cfg.models
}

func (cfg *Config) registerRenderers(file *configFile) error {
	for _, r := range file.Renderers {
		id := r.ID

		if id == "" {
			id = pipe.ID
		}

		name := r.Name

		if name == "" {
			name = "Schnell"
		}

		renderer, err := createRenderer(r)

		if err != nil {
			return err
		}

		if limit := createLimiter(r.Limit); limit != nil {
			renderer = limiter.NewRenderer(limit, renderer)
		}

		if otel.EnableTelemetry {
			renderer = otel.NewRenderer("flux", id, renderer)
		}

		cfg.RegisterRenderer(id, name, renderer)
	}

	return nil
}

func createRenderer(r rendererConfig) (provider.Renderer, error) {
	options := []flux.Option{}

	if r.Token != "" {
		options = append(options, flux.WithToken(r.Token))
	}

	if r.Version != "" {
		options = append(options, flux.WithVersion(r.Version))
	}

	return flux.New(r.URL, options...)
}
