package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNoStructuredOutput signals that the provider answered but returned no
// usable structured payload. Callers treat it like any other generation
// failure and fall back.
var ErrNoStructuredOutput = errors.New("no structured output in response")

// ToolSchema declares the structured payload a provider must return.
// InputSchema is a JSON Schema object.
type ToolSchema struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

type TextRequest struct {
	Prompt      string
	System      string
	Temperature float32
	MaxTokens   int
}

type StructuredRequest struct {
	Prompt      string
	System      string
	Tool        ToolSchema
	Temperature float32
	MaxTokens   int
}

type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

type ChatRequest struct {
	Messages    []Message
	System      string
	Temperature float32
	MaxTokens   int
}

// Client is the generative-text collaborator. GenerateStructured returns
// the raw payload matching the tool schema, or ErrNoStructuredOutput;
// shape normalization across providers happens inside each adapter.
type Client interface {
	Generate(ctx context.Context, req TextRequest) (string, error)
	GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

const (
	defaultMaxTokens    = 1024
	structuredMaxTokens = 2000
)

func maxTokensOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}
