package flux

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// profile describes one image generation backend: the substring that selects
// it, the extra headers it expects, and its request body shape.
type profile struct {
	name  string
	match string

	header map[string]string

	body func(prompt string, cfg *Config) (any, error)
}

// selection is first-match over this ordered set.
var profiles = []profile{
	{
		name:  "huggingface",
		match: "huggingface.co",

		header: map[string]string{
			"x-wait-for-model": "true",
		},

		body: func(prompt string, cfg *Config) (any, error) {
			type bodyType struct {
				Inputs string `json:"inputs"`
			}

			return bodyType{
				Inputs: prompt,
			}, nil
		},
	},

	{
		name:  "replicate",
		match: "replicate.com",

		header: map[string]string{
			"Prefer": "wait",
		},

		body: func(prompt string, cfg *Config) (any, error) {
			body, err := cfg.versionFields()

			if err != nil {
				return nil, err
			}

			// https://replicate.com/black-forest-labs/flux-schnell/api/schema#input-schema
			body["input"] = map[string]any{
				"prompt": prompt,

				"go_fast":     true,
				"num_outputs": 1,

				"aspect_ratio":   "1:1",
				"output_format":  "webp",
				"output_quality": 90,
			}

			return body, nil
		},
	},

	{
		name:  "together",
		match: "together.xyz",

		body: func(prompt string, cfg *Config) (any, error) {
			type bodyType struct {
				Model  string `json:"model"`
				Prompt string `json:"prompt"`

				Width  int `json:"width"`
				Height int `json:"height"`

				Steps int `json:"steps"`
				N     int `json:"n"`

				ResponseFormat string `json:"response_format"`
			}

			return bodyType{
				Model:  "black-forest-labs/FLUX.1-schnell-Free",
				Prompt: prompt,

				Width:  1024,
				Height: 1024,

				Steps: 4,
				N:     1,

				ResponseFormat: "b64_json",
			}, nil
		},
	},

	{
		name:  "hyperbolic",
		match: "hyperbolic.xyz",

		body: func(prompt string, cfg *Config) (any, error) {
			type bodyType struct {
				ModelName string `json:"model_name"`
				Prompt    string `json:"prompt"`

				Steps    int     `json:"steps"`
				CFGScale float64 `json:"cfg_scale"`

				EnableRefiner bool `json:"enable_refiner"`

				Height int `json:"height"`
				Width  int `json:"width"`

				Backend string `json:"backend"`
			}

			return bodyType{
				ModelName: "FLUX.1-dev",
				Prompt:    prompt,

				Steps:    25,
				CFGScale: 5,

				EnableRefiner: false,

				Height: 1024,
				Width:  1024,

				Backend: "auto",
			}, nil
		},
	},
}

func matchProfile(url string) (*profile, bool) {
	for i := range profiles {
		if strings.Contains(url, profiles[i].match) {
			return &profiles[i], true
		}
	}

	return nil, false
}

// versionFields parses the configured Replicate version into the top-level
// request fields. The value is decoded strictly as JSON, never evaluated.
func (c *Config) versionFields() (map[string]any, error) {
	val := strings.TrimSpace(c.version)

	if val == "" {
		return nil, errors.New("replicate model version required")
	}

	// full JSON object, e.g. {"version": "5599ed30..."}
	if strings.HasPrefix(val, "{") {
		var fields map[string]any

		if err := json.Unmarshal([]byte(val), &fields); err != nil {
			return nil, fmt.Errorf("invalid replicate version object: %w", err)
		}

		return fields, nil
	}

	// key/value fragment, e.g. "version": "5599ed30...",
	if strings.Contains(val, ":") {
		var fields map[string]any

		if err := json.Unmarshal([]byte("{"+strings.TrimSuffix(val, ",")+"}"), &fields); err != nil {
			return nil, fmt.Errorf("invalid replicate version fragment: %w", err)
		}

		return fields, nil
	}

	// bare version id
	return map[string]any{
		"version": val,
	}, nil
}
