package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bgeneto/flux-image-gen/pkg/pipe"
	"github.com/bgeneto/flux-image-gen/pkg/provider"

	"github.com/google/uuid"
)

// handleChatCompletion implements the host calling convention: the latest
// user message of the conversation is the image prompt, the completion
// content is the pipe's markdown (or error) text.
func (h *Handler) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	var req ChatCompletionRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.Model == "" {
		req.Model = pipe.ID
	}

	renderer, err := h.Renderer(req.Model)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p := pipe.New(renderer)

	messages := toMessages(req.Messages)

	id := "chatcmpl-" + uuid.NewString()
	created := time.Now().Unix()

	if req.Stream {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")

		for result := range p.Stream(r.Context(), messages) {
			writeEventData(w, ChatCompletion{
				ID:     id,
				Object: "chat.completion.chunk",

				Created: created,
				Model:   req.Model,

				Choices: []ChatCompletionChoice{
					{
						Delta: &ChatCompletionMessage{
							Role:    "assistant",
							Content: result,
						},

						FinishReason: "stop",
					},
				},
			})
		}

		fmt.Fprintf(w, "data: [DONE]\n\n")

		return
	}

	result := p.Run(r.Context(), messages)

	writeJson(w, ChatCompletion{
		ID:     id,
		Object: "chat.completion",

		Created: created,
		Model:   req.Model,

		Choices: []ChatCompletionChoice{
			{
				Message: &ChatCompletionMessage{
					Role:    "assistant",
					Content: result,
				},

				FinishReason: "stop",
			},
		},
	})
}

func toMessages(messages []ChatCompletionMessage) []provider.Message {
	var result []provider.Message

	for _, m := range messages {
		switch m.Role {
		case "system", "developer":
			result = append(result, provider.SystemMessage(m.Content))

		case "assistant":
			result = append(result, provider.AssistantMessage(m.Content))

		default:
			result = append(result, provider.UserMessage(m.Content))
		}
	}

	return result
}
