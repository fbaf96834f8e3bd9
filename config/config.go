package config

import (
	"bytes"
	"os"

	"github.com/bgeneto/flux-image-gen/pkg/provider"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co/models/black-forest-labs/FLUX.1-schnell"
)

type Config struct {
	Address string

	models []provider.Model

	renderer map[string]provider.Renderer
}

// Parse loads the configuration file at path. Values may reference
// environment variables, e.g. token: ${FLUX_SCHNELL_API_KEY}.
func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerRenderers(file); err != nil {
		return nil, err
	}

	return c, nil
}

// FromEnvironment builds a configuration from the FLUX_SCHNELL_* variables
// alone, for hosts that run without a configuration file.
func FromEnvironment() (*Config, error) {
	url := os.Getenv("FLUX_SCHNELL_API_BASE_URL")

	if url == "" {
		url = defaultBaseURL
	}

	file := &configFile{
		Renderers: []rendererConfig{
			{
				URL: url,

				Token:   os.Getenv("FLUX_SCHNELL_API_KEY"),
				Version: os.Getenv("FLUX_SCHNELL_VERSION"),
			},
		},
	}

	c := &Config{
		Address: ":8080",
	}

	if err := c.registerRenderers(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Renderers []rendererConfig `yaml:"renderers"`
}

type rendererConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	URL string `yaml:"url"`

	Token   string `yaml:"token"`
	Version string `yaml:"version"`

	Limit *int `yaml:"limit"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
