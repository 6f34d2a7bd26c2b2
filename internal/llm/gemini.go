package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient adapts the Google generative AI SDK. Structured generation
// is prompt-constrained JSON: the model is instructed to emit only the tool
// payload and the adapter extracts the JSON object from the reply.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, req TextRequest) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.Temperature > 0 {
		model.SetTemperature(req.Temperature)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", err
	}
	return firstCandidateText(resp)
}

func (c *GeminiClient) GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	schemaJSON, err := json.Marshal(req.Tool.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool schema: %w", err)
	}

	prompt := fmt.Sprintf(
		"%s\n\nRespond with a single JSON object matching this JSON Schema, and nothing else:\n%s",
		req.Prompt, schemaJSON,
	)

	text, err := c.Generate(ctx, TextRequest{
		Prompt:      prompt,
		System:      req.System,
		Temperature: req.Temperature,
		MaxTokens:   maxTokensOr(req.MaxTokens, structuredMaxTokens),
	})
	if err != nil {
		return nil, err
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, ErrNoStructuredOutput
	}
	payload := json.RawMessage(text[start : end+1])
	if !json.Valid(payload) {
		return nil, ErrNoStructuredOutput
	}
	return payload, nil
}

func (c *GeminiClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.Temperature > 0 {
		model.SetTemperature(req.Temperature)
	}

	cs := model.StartChat()
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("no messages to send")
	}
	for _, m := range req.Messages[:len(req.Messages)-1] {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(req.Messages[len(req.Messages)-1].Content))
	if err != nil {
		return "", err
	}
	return firstCandidateText(resp)
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("no response candidates or content")
}
