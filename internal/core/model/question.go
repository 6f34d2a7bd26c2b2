package model

import "time"

type QuestionStatus string

const (
	QuestionUnanswered QuestionStatus = "unanswered"
	QuestionPassed     QuestionStatus = "passed"
	QuestionFailed     QuestionStatus = "failed"
)

// Question is an assessment item bound to one node. Each answer submission
// mutates the matching question in place and increments Attempts.
type Question struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Status     QuestionStatus `json:"status"`
	Attempts   int            `json:"attempts"`
	LastAnswer string         `json:"last_answer,omitempty"`
	Feedback   string         `json:"feedback,omitempty"`
	Grade      *int           `json:"grade,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}

// Evaluation is the result of grading one answer. Passed is always
// recomputed locally as Grade >= PassThreshold.
type Evaluation struct {
	Feedback string `json:"feedback"`
	Grade    int    `json:"grade"`
	Passed   bool   `json:"passed"`
}

// PassThreshold is the minimum grade counted as a pass.
const PassThreshold = 80
