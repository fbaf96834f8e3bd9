package api

// https://platform.openai.com/docs/api-reference

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Model struct {
	ID     string `json:"id"`
	Object string `json:"object"`

	OwnedBy string `json:"owned_by,omitempty"`
}

type ModelList struct {
	Object string `json:"object"`

	Models []Model `json:"data"`
}

type ChatCompletionRequest struct {
	Model string `json:"model"`

	Messages []ChatCompletionMessage `json:"messages"`

	Stream bool `json:"stream,omitempty"`
}

type ChatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletion struct {
	ID     string `json:"id"`
	Object string `json:"object"`

	Created int64  `json:"created"`
	Model   string `json:"model"`

	Choices []ChatCompletionChoice `json:"choices"`
}

type ChatCompletionChoice struct {
	Index int `json:"index"`

	Message *ChatCompletionMessage `json:"message,omitempty"`
	Delta   *ChatCompletionMessage `json:"delta,omitempty"`

	FinishReason string `json:"finish_reason,omitempty"`
}

type ImageCreateRequest struct {
	Model string `json:"model"`

	Prompt string `json:"prompt"`

	ResponseFormat string `json:"response_format,omitempty"`
}

type Image struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

type ImageList struct {
	Images []Image `json:"data"`
}
