package api_test

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bgeneto/flux-image-gen/config"
	"github.com/bgeneto/flux-image-gen/pkg/provider"
	"github.com/bgeneto/flux-image-gen/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

type stubRenderer struct {
	prompt string
}

func (r *stubRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	r.prompt = input

	return &provider.Rendering{
		Content:     pngBytes,
		ContentType: "image/png",
	}, nil
}

func newTestServer(t *testing.T, renderer provider.Renderer) *httptest.Server {
	cfg := &config.Config{
		Address: ":8080",
	}

	cfg.RegisterRenderer("flux_schnell", "Schnell", renderer)

	h, err := api.New(cfg)
	require.NoError(t, err)

	r := chi.NewRouter()

	r.Route("/v1", func(r chi.Router) {
		h.Attach(r)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server
}

func TestModels(t *testing.T) {
	server := newTestServer(t, &stubRenderer{})

	resp, err := http.Get(server.URL + "/v1/models")
	require.NoError(t, err)

	defer resp.Body.Close()

	var result struct {
		Object string `json:"object"`

		Models []struct {
			ID string `json:"id"`
		} `json:"data"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Equal(t, "list", result.Object)
	require.Len(t, result.Models, 1)
	require.Equal(t, "flux_schnell", result.Models[0].ID)
}

func TestModelNotFound(t *testing.T) {
	server := newTestServer(t, &stubRenderer{})

	resp, err := http.Get(server.URL + "/v1/models/unknown")
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatCompletion(t *testing.T) {
	renderer := &stubRenderer{}

	server := newTestServer(t, renderer)

	body := strings.NewReader(`{
		"model": "flux_schnell",
		"messages": [
			{"role": "system", "content": "You render images."},
			{"role": "user", "content": "a red fox"}
		]
	}`)

	resp, err := http.Post(server.URL+"/v1/chat/completions", "application/json", body)
	require.NoError(t, err)

	defer resp.Body.Close()

	var result struct {
		Object string `json:"object"`

		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`

			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Equal(t, "a red fox", renderer.prompt)

	require.Equal(t, "chat.completion", result.Object)
	require.Len(t, result.Choices, 1)
	require.Equal(t, "assistant", result.Choices[0].Message.Role)
	require.Equal(t, "stop", result.Choices[0].FinishReason)

	content := result.Choices[0].Message.Content
	require.True(t, strings.HasPrefix(content, "![Image](data:image/png;base64,"))
	require.True(t, strings.HasSuffix(content, "`GeneratedImage.png`"))
}

func TestChatCompletionStream(t *testing.T) {
	server := newTestServer(t, &stubRenderer{})

	body := strings.NewReader(`{
		"model": "flux_schnell",
		"stream": true,
		"messages": [
			{"role": "user", "content": "a red fox"}
		]
	}`)

	resp, err := http.Post(server.URL+"/v1/chat/completions", "application/json", body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	var events []string

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if data, ok := strings.CutPrefix(line, "data: "); ok {
			events = append(events, data)
		}
	}

	require.NoError(t, scanner.Err())

	// exactly one content chunk, then the terminator
	require.Len(t, events, 2)
	require.Equal(t, "[DONE]", events[1])

	var chunk struct {
		Object string `json:"object"`

		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}

	require.NoError(t, json.Unmarshal([]byte(events[0]), &chunk))

	require.Equal(t, "chat.completion.chunk", chunk.Object)
	require.Len(t, chunk.Choices, 1)
	require.Contains(t, chunk.Choices[0].Delta.Content, "GeneratedImage.png")
}

func TestChatCompletionUnknownModel(t *testing.T) {
	server := newTestServer(t, &stubRenderer{})

	body := strings.NewReader(`{"model": "dall-e-3", "messages": []}`)

	resp, err := http.Post(server.URL+"/v1/chat/completions", "application/json", body)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImageGeneration(t *testing.T) {
	renderer := &stubRenderer{}

	server := newTestServer(t, renderer)

	body := strings.NewReader(`{"prompt": "a red fox"}`)

	resp, err := http.Post(server.URL+"/v1/images/generations", "application/json", body)
	require.NoError(t, err)

	defer resp.Body.Close()

	var result struct {
		Images []struct {
			URL     string `json:"url"`
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Equal(t, "a red fox", renderer.prompt)

	require.Len(t, result.Images, 1)
	require.Equal(t, base64.StdEncoding.EncodeToString(pngBytes), result.Images[0].B64JSON)
}

func TestImageGenerationURLFormat(t *testing.T) {
	server := newTestServer(t, &stubRenderer{})

	body := strings.NewReader(`{"prompt": "a red fox", "response_format": "url"}`)

	resp, err := http.Post(server.URL+"/v1/images/generations", "application/json", body)
	require.NoError(t, err)

	defer resp.Body.Close()

	var result struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"data"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Len(t, result.Images, 1)
	require.True(t, strings.HasPrefix(result.Images[0].URL, "data:image/png;base64,"))
}
