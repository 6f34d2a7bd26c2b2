package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/llm"
	"github.com/mindweave/mindweave/internal/logger"
)

const fallbackReply = "I'm sorry, I encountered an error while processing your message. Please try again."

// Service drives the per-node tutor chat. Replies degrade to a fixed
// apology message on upstream failure; the chat flow never errors out.
type Service struct {
	llm llm.Client
	log *logger.Logger
}

func NewService(client llm.Client, log *logger.Logger) *Service {
	return &Service{llm: client, log: log}
}

// WelcomeMessage seeds a node's chat on first read. Deterministic; no LLM
// call involved.
func (s *Service) WelcomeMessage(node *model.NodeInfo) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Content:   fmt.Sprintf("Hello! I'm your guide for learning about '%s'. What would you like to know or discuss about this topic?", node.Label),
		CreatedAt: time.Now().UTC(),
	}
}

// Reply generates the tutor's next message given the full history.
func (s *Service) Reply(ctx context.Context, node *model.NodeInfo, history []model.ChatMessage, parents, children []model.NodeContext) string {
	messages := make([]llm.Message, 0, len(history))
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	response, err := s.llm.Chat(ctx, llm.ChatRequest{
		Messages:    messages,
		System:      systemPrompt(node, parents, children),
		Temperature: 0.3,
	})
	if err != nil || response == "" {
		s.log.Warn("chat reply generation failed, using fallback", "node_id", node.ID, "error", err)
		return fallbackReply
	}
	return response
}

func systemPrompt(node *model.NodeInfo, parents, children []model.NodeContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an AI tutor specialized in teaching about '%s'.
Your goal is to help the user understand this topic in depth.

Here is the content about '%s' that you should use as your primary source of information:
---
%s
---
`, node.Label, node.Label, node.Content)

	if len(parents) > 0 {
		b.WriteString("\nThis topic is related to these parent topics:\n")
		for i, p := range parents {
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, p.Label, truncate(p.Content, 200))
		}
	}
	if len(children) > 0 {
		b.WriteString("\nThis topic has these subtopics:\n")
		for i, c := range children {
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, c.Label, truncate(c.Content, 200))
		}
	}

	b.WriteString("\nYour responses should be educational, accurate, and helpful. Encourage the user to ask questions and engage with the material.")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
