package assessment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/logger"
)

func TestGenerateQuestions_ParsesArray(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `[{"text":"What is a goroutine?"},{"text":"How do channels synchronize?"}]`,
	}
	e := NewEngine(mockLLM, logger.NewNop())

	questions := e.GenerateQuestions(context.Background(), "content", "Go Concurrency", nil, nil)

	require.Len(t, questions, 2)
	assert.Equal(t, "What is a goroutine?", questions[0].Text)
	assert.Equal(t, model.QuestionUnanswered, questions[0].Status)
	assert.NotEmpty(t, questions[0].ID)
	assert.NotEqual(t, questions[0].ID, questions[1].ID)
}

func TestGenerateQuestions_HandlesSurroundingText(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: "Here are your questions:\n```json\n[{\"text\":\"Why?\"}]\n```",
	}
	e := NewEngine(mockLLM, logger.NewNop())

	questions := e.GenerateQuestions(context.Background(), "content", "Label", nil, nil)

	require.Len(t, questions, 1)
	assert.Equal(t, "Why?", questions[0].Text)
}

func TestGenerateQuestions_FallbackOnGarbage(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "I cannot do that."}
	e := NewEngine(mockLLM, logger.NewNop())

	questions := e.GenerateQuestions(context.Background(), "content", "Photosynthesis", nil, nil)

	require.Len(t, questions, 1)
	assert.Contains(t, questions[0].Text, "Photosynthesis")
}

func TestGenerateQuestions_FallbackOnError(t *testing.T) {
	mockLLM := &MockLLMClient{Err: errors.New("upstream down")}
	e := NewEngine(mockLLM, logger.NewNop())

	questions := e.GenerateQuestions(context.Background(), "content", "Label", nil, nil)

	require.Len(t, questions, 1)
}

func TestGenerateQuestions_FallbackOnEmptyArray(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `[]`}
	e := NewEngine(mockLLM, logger.NewNop())

	questions := e.GenerateQuestions(context.Background(), "content", "Label", nil, nil)

	require.Len(t, questions, 1)
}

func TestEvaluateAnswer_PassedRecomputedFromGrade(t *testing.T) {
	cases := []struct {
		grade      int
		llmPassed  bool
		wantPassed bool
	}{
		{grade: 85, llmPassed: true, wantPassed: true},
		{grade: 80, llmPassed: false, wantPassed: true}, // boundary: local recompute wins
		{grade: 79, llmPassed: true, wantPassed: false},
		{grade: 0, llmPassed: true, wantPassed: false},
		{grade: 100, llmPassed: false, wantPassed: true},
	}

	for _, tc := range cases {
		mockLLM := &MockLLMClient{
			Response: mustEvalJSON(tc.grade, tc.llmPassed),
		}
		e := NewEngine(mockLLM, logger.NewNop())

		eval := e.EvaluateAnswer(context.Background(), "q", "a", "content")

		assert.Equal(t, tc.grade, eval.Grade)
		assert.Equal(t, tc.wantPassed, eval.Passed, "grade %d", tc.grade)
	}
}

func TestEvaluateAnswer_ClampsGrade(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"feedback":"f","grade":140,"passed":true}`}
	e := NewEngine(mockLLM, logger.NewNop())

	eval := e.EvaluateAnswer(context.Background(), "q", "a", "content")

	assert.Equal(t, 100, eval.Grade)
	assert.True(t, eval.Passed)
}

func TestEvaluateAnswer_FallbackOnGarbage(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "not json at all"}
	e := NewEngine(mockLLM, logger.NewNop())

	eval := e.EvaluateAnswer(context.Background(), "q", "a", "content")

	assert.Equal(t, 0, eval.Grade)
	assert.False(t, eval.Passed)
	assert.NotEmpty(t, eval.Feedback)
}

func TestEvaluateAnswer_FallbackOnError(t *testing.T) {
	mockLLM := &MockLLMClient{Err: errors.New("upstream down")}
	e := NewEngine(mockLLM, logger.NewNop())

	eval := e.EvaluateAnswer(context.Background(), "q", "a", "content")

	assert.Equal(t, 0, eval.Grade)
	assert.False(t, eval.Passed)
}

func mustEvalJSON(grade int, passed bool) string {
	return fmt.Sprintf(`{"feedback":"detailed feedback","grade":%d,"passed":%t}`, grade, passed)
}
