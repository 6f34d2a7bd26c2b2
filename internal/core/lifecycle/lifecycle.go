package lifecycle

import (
	"fmt"
	"sort"
	"time"

	"github.com/mindweave/mindweave/internal/core/model"
)

// UnlockRule selects which related nodes gate a node's unlock. The
// parents-complete rule treats parents as prerequisites; the
// children-complete rule requires a node's subtopics to be finished first.
// One rule is canonical per deployment.
type UnlockRule string

const (
	RuleParentsComplete  UnlockRule = "parents"
	RuleChildrenComplete UnlockRule = "children"
)

func RuleFromString(s string) UnlockRule {
	if s == string(RuleChildrenComplete) {
		return RuleChildrenComplete
	}
	return RuleParentsComplete
}

// UnlockResult reports the predicate outcome plus the ids still blocking,
// so callers can render "what's left" messaging.
type UnlockResult struct {
	Unlockable bool
	Pending    []string
}

// CheckUnlockable evaluates the unlock predicate against current statuses.
// A node with no gating neighbors (root under the parents rule, leaf under
// the children rule) is trivially unlockable. Multi-parent DAGs are
// supported: the whole set must be completed.
func CheckUnlockable(nodeID string, rels *model.Relationships, progress map[string]*model.NodeStatus, rule UnlockRule) UnlockResult {
	var gating model.IDSet
	if rule == RuleChildrenComplete {
		gating = rels.Children[nodeID]
	} else {
		gating = rels.Parents[nodeID]
	}

	var pending []string
	for id := range gating {
		st, ok := progress[id]
		if !ok || st.Status != model.StatusCompleted {
			pending = append(pending, id)
		}
	}
	sort.Strings(pending)

	return UnlockResult{
		Unlockable: len(pending) == 0,
		Pending:    pending,
	}
}

// MarkStarted moves a node into in_progress on the first answer submission.
// Completed nodes are left alone; StartedAt is stamped only once.
func MarkStarted(st *model.NodeStatus, now time.Time) {
	if st.Status == model.StatusCompleted {
		return
	}
	st.Status = model.StatusInProgress
	if st.StartedAt == nil {
		t := now
		st.StartedAt = &t
	}
}

// AllPassed reports whether every attached question has passed. A node
// with no questions is not considered passed: generation always seeds at
// least one question, and completion without any assessment is reserved
// for the manual override path.
func AllPassed(st *model.NodeStatus) bool {
	if len(st.Questions) == 0 {
		return false
	}
	for _, q := range st.Questions {
		if q.Status != model.QuestionPassed {
			return false
		}
	}
	return true
}

// CompleteIfAllPassed promotes the node to completed when every question
// has passed. CompletedAt is stamped only on the first completion.
// Returns true when the node is completed after the call.
func CompleteIfAllPassed(st *model.NodeStatus, now time.Time) bool {
	if !AllPassed(st) {
		return st.Status == model.StatusCompleted
	}
	st.Status = model.StatusCompleted
	if st.CompletedAt == nil {
		t := now
		st.CompletedAt = &t
	}
	return true
}

// ApplyManualStatus sets any of the four states directly. Timestamps keep
// the first-write-only rule.
func ApplyManualStatus(st *model.NodeStatus, status model.Status, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status %q", model.ErrInvalidInput, status)
	}
	st.Status = status
	switch status {
	case model.StatusInProgress:
		if st.StartedAt == nil {
			t := now
			st.StartedAt = &t
		}
	case model.StatusCompleted:
		if st.CompletedAt == nil {
			t := now
			st.CompletedAt = &t
		}
	}
	return nil
}

// Regenerate archives the current question set and status, then resets the
// node for a fresh attempt. Archived data is appended, never overwritten.
func Regenerate(st *model.NodeStatus) {
	st.ArchivedQuestions = append(st.ArchivedQuestions, st.Questions...)
	st.PreviousStatus = st.Status
	st.Questions = nil
	st.Status = model.StatusNotStarted
	st.StartedAt = nil
	st.CompletedAt = nil
	st.Unlockable = false
}
