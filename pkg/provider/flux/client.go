package flux

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bgeneto/flux-image-gen/pkg/provider"

	"github.com/google/uuid"
)

var _ provider.Renderer = (*Client)(nil)

// Client renders images using one of the FLUX.1 Schnell hosting providers.
// The backend is selected by substring-matching the configured base URL.
//
// https://api-inference.huggingface.co/models/black-forest-labs/FLUX.1-schnell
// https://api.replicate.com/v1/models/black-forest-labs/flux-schnell/predictions
// https://api.together.xyz/v1/images/generations
// https://api.hyperbolic.xyz/v1/image/generation
type Client struct {
	*Config
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("base url required")
	}

	cfg := &Config{
		url: url,

		client: defaultClient(),
	}

	for _, option := range options {
		option(cfg)
	}

	return &Client{
		Config: cfg,
	}, nil
}

func (c *Client) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	profile, ok := matchProfile(c.url)

	if !ok {
		return nil, fmt.Errorf("unsupported API base URL %q", c.url)
	}

	body, err := profile.body(input, c.Config)

	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", c.url, jsonReader(body))
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	for key, val := range profile.header {
		req.Header.Set(key, val)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, convertError(resp)
	}

	contentType := resp.Header.Get("Content-Type")

	switch {
	case strings.Contains(contentType, "application/json"):
		return c.handleJSON(ctx, profile, resp)

	case strings.Contains(contentType, "image/"):
		return c.handleImage(profile, resp)

	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
}

// handleJSON normalizes the JSON response shapes: an "output" array of image
// URLs (Replicate, Hugging Face) or a "data" array of base64 payloads
// (Together, Hyperbolic).
func (c *Client) handleJSON(ctx context.Context, profile *profile, resp *http.Response) (*provider.Rendering, error) {
	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	type resultType struct {
		Output []string `json:"output"`

		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}

	var result resultType

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	var payload string

	switch {
	case len(result.Output) > 0:
		payload, err = c.fetchImage(ctx, result.Output[0])

		if err != nil {
			return nil, err
		}

	case len(result.Data) > 0 && result.Data[0].B64JSON != "":
		payload = result.Data[0].B64JSON

	default:
		return nil, fmt.Errorf("unexpected response format: %s", data)
	}

	// payload may arrive as a data URI
	if _, val, ok := strings.Cut(payload, ";base64,"); ok {
		payload = val
	}

	ext := sniffExtension(payload)

	if ext == "" {
		return nil, fmt.Errorf("unsupported image format: %s: %.48s", data, payload)
	}

	content, err := base64.StdEncoding.DecodeString(payload)

	if err != nil {
		return nil, err
	}

	return &provider.Rendering{
		ID:    uuid.New().String(),
		Model: profile.name,

		Content:     content,
		ContentType: "image/" + ext,
	}, nil
}

// handleImage normalizes a raw image body (Hugging Face).
func (c *Client) handleImage(profile *profile, resp *http.Response) (*provider.Rendering, error) {
	contentType := resp.Header.Get("Content-Type")

	if contentType == "" {
		contentType = "image/png"
	}

	content, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	return &provider.Rendering{
		ID:    uuid.New().String(),
		Model: profile.name,

		Content:     content,
		ContentType: contentType,
	}, nil
}

// fetchImage downloads a generated image and returns it base64-encoded.
func (c *Client) fetchImage(ctx context.Context, url string) (string, error) {
	req, _ := http.NewRequestWithContext(ctx, "GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)

	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", convertError(resp)
	}

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// sniffExtension infers the image format from the leading characters of its
// base64 representation.
func sniffExtension(payload string) string {
	switch {
	case strings.HasPrefix(payload, "/9j/"):
		return "jpeg"

	case strings.HasPrefix(payload, "iVBOR"):
		return "png"

	case strings.HasPrefix(payload, "R0lG"):
		return "gif"

	case strings.HasPrefix(payload, "UklGR"):
		return "webp"
	}

	return ""
}

func jsonReader(v any) io.Reader {
	var data bytes.Buffer

	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	enc.Encode(v)

	return &data
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}
