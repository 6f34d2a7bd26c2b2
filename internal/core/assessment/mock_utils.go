package assessment

import (
	"context"
	"encoding/json"

	"github.com/mindweave/mindweave/internal/llm"
)

type MockLLMClient struct {
	Response string
	Err      error
}

func (m *MockLLMClient) Generate(ctx context.Context, req llm.TextRequest) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLMClient) GenerateStructured(ctx context.Context, req llm.StructuredRequest) (json.RawMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return json.RawMessage(m.Response), nil
}

func (m *MockLLMClient) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
