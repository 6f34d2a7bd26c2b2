package chat

import (
	"context"
	"encoding/json"

	"github.com/mindweave/mindweave/internal/llm"
)

// MockLLMClient records chat calls and returns a canned reply.
type MockLLMClient struct {
	Response  string
	Err       error
	ChatCalls []llm.ChatRequest
}

func (m *MockLLMClient) Generate(ctx context.Context, req llm.TextRequest) (string, error) {
	return m.Response, m.Err
}

func (m *MockLLMClient) GenerateStructured(ctx context.Context, req llm.StructuredRequest) (json.RawMessage, error) {
	return nil, m.Err
}

func (m *MockLLMClient) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	m.ChatCalls = append(m.ChatCalls, req)
	return m.Response, m.Err
}
