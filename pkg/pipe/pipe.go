// Package pipe implements the manifold pipe contract of chat hosts like
// Open WebUI: a fixed model catalog and a generation call that always
// returns displayable text, never an error.
package pipe

import (
	"context"
	"encoding/base64"
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bgeneto/flux-image-gen/pkg/provider"
)

const (
	ID   = "flux_schnell"
	Type = "manifold"
	Name = "FLUX.1: "
)

type Pipe struct {
	renderer provider.Renderer
}

func New(renderer provider.Renderer) *Pipe {
	return &Pipe{
		renderer: renderer,
	}
}

// Pipes returns the catalog of models this pipe serves.
func (p *Pipe) Pipes() []provider.Model {
	return []provider.Model{
		{
			ID:   ID,
			Name: "Schnell",
		},
	}
}

// Run renders an image for the latest user message and returns it as a
// markdown-embedded data URI. Every failure is converted to an error text;
// the contract is total.
func (p *Pipe) Run(ctx context.Context, messages []provider.Message) string {
	prompt, ok := provider.LastUserMessage(messages)

	if !ok {
		return "Error: conversation contains no user message"
	}

	rendering, err := p.renderer.Render(ctx, prompt, nil)

	if err != nil {
		return "Error: " + upperFirst(err.Error())
	}

	return Markdown(rendering)
}

// Stream yields the complete result exactly once. Incremental delivery is
// not supported, the sequence exists to satisfy hosts that expect one.
func (p *Pipe) Stream(ctx context.Context, messages []provider.Message) iter.Seq[string] {
	return func(yield func(string) bool) {
		yield(p.Run(ctx, messages))
	}
}

// Markdown formats a rendering as an inline markdown image followed by a
// filename hint.
func Markdown(rendering *provider.Rendering) string {
	contentType := rendering.ContentType

	if contentType == "" {
		contentType = "image/png"
	}

	ext := "png"

	if _, val, ok := strings.Cut(contentType, "image/"); ok && val != "" {
		ext, _, _ = strings.Cut(val, ";")
	}

	payload := base64.StdEncoding.EncodeToString(rendering.Content)

	return fmt.Sprintf("![Image](data:%s;base64,%s)\n`GeneratedImage.%s`", contentType, payload, ext)
}

func upperFirst(text string) string {
	r, size := utf8.DecodeRuneInString(text)

	if r == utf8.RuneError {
		return text
	}

	return string(unicode.ToUpper(r)) + text[size:]
}
