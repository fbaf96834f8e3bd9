package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bgeneto/flux-image-gen/pkg/provider"
)

type RenderingService struct {
	Options []RequestOption
}

func NewRenderingService(opts ...RequestOption) RenderingService {
	return RenderingService{
		Options: opts,
	}
}

type Rendering = provider.Rendering

type RenderingRequest struct {
	Model string

	Input string
}

func (r *RenderingService) New(ctx context.Context, input RenderingRequest, opts ...RequestOption) (*Rendering, error) {
	c := newRequestConfig(append(r.Options, opts...)...)
	url := strings.TrimRight(c.URL, "/") + "/v1/images/generations"

	type bodyType struct {
		Model string `json:"model,omitempty"`

		Prompt string `json:"prompt"`

		ResponseFormat string `json:"response_format,omitempty"`
	}

	body := bodyType{
		Model: input.Model,

		Prompt: input.Input,

		// the url format carries the content type as a data URI
		ResponseFormat: "url",
	}

	req, _ := http.NewRequestWithContext(ctx, "POST", url, jsonReader(body))
	req.Header.Set("Content-Type", "application/json")

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	// https://platform.openai.com/docs/api-reference/images
	type resultType struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"data"`
	}

	var result resultType

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if len(result.Images) == 0 {
		return nil, errors.New("no image returned")
	}

	contentType, payload, ok := strings.Cut(strings.TrimPrefix(result.Images[0].URL, "data:"), ";base64,")

	if !ok {
		return nil, errors.New("unexpected image url format")
	}

	content, err := base64.StdEncoding.DecodeString(payload)

	if err != nil {
		return nil, err
	}

	return &provider.Rendering{
		Model: input.Model,

		Content:     content,
		ContentType: contentType,
	}, nil
}

func jsonReader(v any) io.Reader {
	var data bytes.Buffer

	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	enc.Encode(v)

	return &data
}
