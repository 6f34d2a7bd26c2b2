package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mindweave/mindweave/internal/core/common"
	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/llm"
	"github.com/mindweave/mindweave/internal/logger"
)

const fallbackFeedback = "We encountered an error evaluating your answer. Please try again."

// Engine generates questions for node content and grades free-text
// answers. Upstream failures are absorbed: question generation falls back
// to a single default question and evaluation falls back to a zero grade,
// so both operations always yield a result.
type Engine struct {
	llm llm.Client
	log *logger.Logger
}

func NewEngine(client llm.Client, log *logger.Logger) *Engine {
	return &Engine{llm: client, log: log}
}

type questionPayload struct {
	Text string `json:"text"`
}

type evaluationPayload struct {
	Feedback string `json:"feedback"`
	Grade    int    `json:"grade"`
	Passed   bool   `json:"passed"`
}

// GenerateQuestions returns 1-3 open-ended questions for a node. The
// result is never empty: unusable LLM output yields one default question.
func (e *Engine) GenerateQuestions(ctx context.Context, nodeContent, nodeLabel string, parents, children []model.NodeContext) []model.Question {
	prompt := questionsPrompt(nodeContent, nodeLabel, parents, children)

	response, err := e.llm.Generate(ctx, llm.TextRequest{Prompt: prompt, Temperature: 0.2})
	if err != nil {
		e.log.Warn("question generation failed, using default question", "node_label", nodeLabel, "error", err)
		return []model.Question{defaultQuestion(nodeLabel)}
	}

	payloads, err := common.ParseJSON[[]questionPayload](response)
	if err != nil || len(payloads) == 0 {
		e.log.Warn("question payload unusable, using default question", "node_label", nodeLabel)
		return []model.Question{defaultQuestion(nodeLabel)}
	}

	questions := make([]model.Question, 0, len(payloads))
	for _, p := range payloads {
		if p.Text == "" {
			continue
		}
		questions = append(questions, newQuestion(p.Text))
	}
	if len(questions) == 0 {
		return []model.Question{defaultQuestion(nodeLabel)}
	}

	e.log.Info("generated questions", "node_label", nodeLabel, "count", len(questions))
	return questions
}

// EvaluateAnswer grades one answer against the node content. Passed is
// recomputed locally from the grade so the threshold invariant holds even
// when the model's own boolean disagrees. Never returns an error:
// unusable output degrades to feedback with a zero grade.
func (e *Engine) EvaluateAnswer(ctx context.Context, questionText, answerText, nodeContent string) model.Evaluation {
	prompt := evaluationPrompt(questionText, answerText, nodeContent)

	response, err := e.llm.Generate(ctx, llm.TextRequest{Prompt: prompt, Temperature: 0.2})
	if err != nil {
		e.log.Warn("answer evaluation failed, using fallback", "error", err)
		return fallbackEvaluation()
	}

	payload, err := common.ParseJSON[evaluationPayload](response)
	if err != nil {
		e.log.Warn("evaluation payload unusable, using fallback", "error", err)
		return fallbackEvaluation()
	}

	grade := payload.Grade
	if grade < 0 {
		grade = 0
	}
	if grade > 100 {
		grade = 100
	}

	return model.Evaluation{
		Feedback: payload.Feedback,
		Grade:    grade,
		Passed:   grade >= model.PassThreshold,
	}
}

func newQuestion(text string) model.Question {
	return model.Question{
		ID:        uuid.New().String(),
		Text:      text,
		Status:    model.QuestionUnanswered,
		CreatedAt: time.Now().UTC(),
	}
}

func defaultQuestion(nodeLabel string) model.Question {
	return newQuestion(fmt.Sprintf("Explain the key concepts of %s in your own words.", nodeLabel))
}

func fallbackEvaluation() model.Evaluation {
	return model.Evaluation{
		Feedback: fallbackFeedback,
		Grade:    0,
		Passed:   false,
	}
}
