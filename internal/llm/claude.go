package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

// ClaudeClient talks to the Anthropic API. Structured generation uses tool
// use with a forced tool choice. When a backup model is configured, any
// failed request is retried once on it before the error is reported.
type ClaudeClient struct {
	client      *anthropic.Client
	model       string
	backupModel string
}

func NewClaudeClient(apiKey, model, backupModel, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		client:      anthropic.NewClient(apiKey, opts...),
		model:       model,
		backupModel: backupModel,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, req TextRequest) (string, error) {
	resp, err := c.createWithFallback(ctx, c.textRequest(req))
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

func (c *ClaudeClient) GenerateStructured(ctx context.Context, req StructuredRequest) (json.RawMessage, error) {
	resp, err := c.createWithFallback(ctx, structuredRequest(req))
	if err != nil {
		return nil, err
	}

	for _, content := range resp.Content {
		if content.Type == anthropic.MessagesContentTypeToolUse && content.MessageContentToolUse != nil {
			return content.MessageContentToolUse.Input, nil
		}
	}
	return nil, ErrNoStructuredOutput
}

func (c *ClaudeClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]anthropic.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "assistant":
			messages = append(messages, anthropic.NewAssistantTextMessage(m.Content))
		default:
			messages = append(messages, anthropic.NewUserTextMessage(m.Content))
		}
	}

	mr := anthropic.MessagesRequest{
		Messages:  messages,
		MaxTokens: maxTokensOr(req.MaxTokens, defaultMaxTokens),
		System:    req.System,
	}
	if req.Temperature > 0 {
		t := req.Temperature
		mr.Temperature = &t
	}

	resp, err := c.createWithFallback(ctx, mr)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// structuredRequest forces the tool choice so the model must answer with
// the tool payload. The ToolChoice type value is the API's literal "tool".
func structuredRequest(req StructuredRequest) anthropic.MessagesRequest {
	mr := anthropic.MessagesRequest{
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(req.Prompt),
		},
		MaxTokens: maxTokensOr(req.MaxTokens, structuredMaxTokens),
		System:    req.System,
		Tools: []anthropic.ToolDefinition{
			{
				Name:        req.Tool.Name,
				Description: req.Tool.Description,
				InputSchema: req.Tool.InputSchema,
			},
		},
		ToolChoice: &anthropic.ToolChoice{
			Type: "tool",
			Name: req.Tool.Name,
		},
	}
	if req.Temperature > 0 {
		t := req.Temperature
		mr.Temperature = &t
	}
	return mr
}

func (c *ClaudeClient) textRequest(req TextRequest) anthropic.MessagesRequest {
	mr := anthropic.MessagesRequest{
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(req.Prompt),
		},
		MaxTokens: maxTokensOr(req.MaxTokens, defaultMaxTokens),
		System:    req.System,
	}
	if req.Temperature > 0 {
		t := req.Temperature
		mr.Temperature = &t
	}
	return mr
}

func (c *ClaudeClient) createWithFallback(ctx context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error) {
	req.Model = anthropic.Model(c.model)
	resp, err := c.client.CreateMessages(ctx, req)
	if err == nil {
		return resp, nil
	}
	if c.backupModel == "" || c.backupModel == c.model {
		return resp, err
	}
	req.Model = anthropic.Model(c.backupModel)
	return c.client.CreateMessages(ctx, req)
}

func firstText(resp anthropic.MessagesResponse) (string, error) {
	for _, content := range resp.Content {
		if content.Type == anthropic.MessagesContentTypeText && content.Text != nil {
			return *content.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}
