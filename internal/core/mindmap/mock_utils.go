package mindmap

import (
	"context"
	"encoding/json"

	"github.com/mindweave/mindweave/internal/llm"
)

// MockLLMClient is a test double for the LLM collaborator. Structured
// replies are served from ResponseQueue first (an empty string entry means
// "no structured output"), then from Response. Err fails every call.
type MockLLMClient struct {
	Response      string
	ResponseQueue []string
	Err           error

	StructuredCalls int
}

func (m *MockLLMClient) next() string {
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp
	}
	return m.Response
}

func (m *MockLLMClient) Generate(ctx context.Context, req llm.TextRequest) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.next(), nil
}

func (m *MockLLMClient) GenerateStructured(ctx context.Context, req llm.StructuredRequest) (json.RawMessage, error) {
	m.StructuredCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	resp := m.next()
	if resp == "" {
		return nil, llm.ErrNoStructuredOutput
	}
	return json.RawMessage(resp), nil
}

func (m *MockLLMClient) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.next(), nil
}
