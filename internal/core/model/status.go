package model

import "time"

type Status string

const (
	StatusLocked     Status = "locked"
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusLocked, StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// NodeStatus tracks learning progress for one node. StartedAt and
// CompletedAt are written exactly once, on the first transition into
// in_progress and completed respectively. Regeneration archives the old
// question set instead of deleting it.
type NodeStatus struct {
	NodeID            string     `json:"node_id"`
	Status            Status     `json:"status"`
	Questions         []Question `json:"questions"`
	Unlockable        bool       `json:"unlockable"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	ArchivedQuestions []Question `json:"archived_questions,omitempty"`
	PreviousStatus    Status     `json:"previous_status,omitempty"`
}
