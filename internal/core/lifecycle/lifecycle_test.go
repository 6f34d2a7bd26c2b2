package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/core/relationships"
	"github.com/mindweave/mindweave/internal/logger"
)

func statuses(pairs map[string]model.Status) map[string]*model.NodeStatus {
	out := make(map[string]*model.NodeStatus, len(pairs))
	for id, s := range pairs {
		out[id] = &model.NodeStatus{NodeID: id, Status: s}
	}
	return out
}

func TestCheckUnlockable_RootIsUnlockableUnderParentsRule(t *testing.T) {
	rels := relationships.Build([]model.Edge{
		{ID: "e1", Source: "A", Target: "B"},
	}, logger.NewNop())

	res := CheckUnlockable("A", rels, statuses(map[string]model.Status{
		"A": model.StatusLocked,
		"B": model.StatusLocked,
	}), RuleParentsComplete)

	assert.True(t, res.Unlockable)
	assert.Empty(t, res.Pending)
}

func TestCheckUnlockable_LeafIsUnlockableUnderChildrenRule(t *testing.T) {
	rels := relationships.Build([]model.Edge{
		{ID: "e1", Source: "A", Target: "B"},
	}, logger.NewNop())

	res := CheckUnlockable("B", rels, statuses(map[string]model.Status{
		"A": model.StatusLocked,
		"B": model.StatusLocked,
	}), RuleChildrenComplete)

	assert.True(t, res.Unlockable)
	assert.Empty(t, res.Pending)
}

func TestCheckUnlockable_PendingParentReported(t *testing.T) {
	rels := relationships.Build([]model.Edge{
		{ID: "e1", Source: "A", Target: "C"},
		{ID: "e2", Source: "B", Target: "C"},
	}, logger.NewNop())

	res := CheckUnlockable("C", rels, statuses(map[string]model.Status{
		"A": model.StatusCompleted,
		"B": model.StatusInProgress,
		"C": model.StatusLocked,
	}), RuleParentsComplete)

	assert.False(t, res.Unlockable)
	assert.Equal(t, []string{"B"}, res.Pending)
}

func TestCheckUnlockable_AllChildrenCompleted(t *testing.T) {
	rels := relationships.Build([]model.Edge{
		{ID: "e1", Source: "A", Target: "B"},
		{ID: "e2", Source: "A", Target: "C"},
	}, logger.NewNop())

	res := CheckUnlockable("A", rels, statuses(map[string]model.Status{
		"A": model.StatusLocked,
		"B": model.StatusCompleted,
		"C": model.StatusCompleted,
	}), RuleChildrenComplete)

	assert.True(t, res.Unlockable)
	assert.Empty(t, res.Pending)
}

func TestCheckUnlockable_MissingStatusCountsAsPending(t *testing.T) {
	rels := relationships.Build([]model.Edge{
		{ID: "e1", Source: "A", Target: "B"},
	}, logger.NewNop())

	res := CheckUnlockable("B", rels, statuses(map[string]model.Status{}), RuleParentsComplete)

	assert.False(t, res.Unlockable)
	assert.Equal(t, []string{"A"}, res.Pending)
}

func TestMarkStarted_StampsStartedAtOnce(t *testing.T) {
	st := &model.NodeStatus{NodeID: "A", Status: model.StatusNotStarted}
	first := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	MarkStarted(st, first)
	require.NotNil(t, st.StartedAt)
	assert.Equal(t, model.StatusInProgress, st.Status)
	assert.Equal(t, first, *st.StartedAt)

	MarkStarted(st, later)
	assert.Equal(t, first, *st.StartedAt)
}

func TestMarkStarted_DoesNotDemoteCompleted(t *testing.T) {
	st := &model.NodeStatus{NodeID: "A", Status: model.StatusCompleted}
	MarkStarted(st, time.Now())
	assert.Equal(t, model.StatusCompleted, st.Status)
}

func TestAllPassed_EmptyQuestionListIsNotPassed(t *testing.T) {
	st := &model.NodeStatus{NodeID: "A", Status: model.StatusNotStarted}
	assert.False(t, AllPassed(st))
}

func TestCompleteIfAllPassed(t *testing.T) {
	st := &model.NodeStatus{
		NodeID: "A",
		Status: model.StatusInProgress,
		Questions: []model.Question{
			{ID: "q1", Status: model.QuestionPassed},
			{ID: "q2", Status: model.QuestionFailed},
		},
	}
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.False(t, CompleteIfAllPassed(st, now))
	assert.Equal(t, model.StatusInProgress, st.Status)
	assert.Nil(t, st.CompletedAt)

	st.Questions[1].Status = model.QuestionPassed
	assert.True(t, CompleteIfAllPassed(st, now))
	require.NotNil(t, st.CompletedAt)
	assert.Equal(t, now, *st.CompletedAt)

	// Further calls never restamp CompletedAt.
	assert.True(t, CompleteIfAllPassed(st, now.Add(time.Hour)))
	assert.Equal(t, now, *st.CompletedAt)
}

func TestApplyManualStatus_RejectsUnknownValue(t *testing.T) {
	st := &model.NodeStatus{NodeID: "A", Status: model.StatusLocked}
	err := ApplyManualStatus(st, model.Status("paused"), time.Now())
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, model.StatusLocked, st.Status)
}

func TestApplyManualStatus_StampsTimestampsOnce(t *testing.T) {
	st := &model.NodeStatus{NodeID: "A", Status: model.StatusLocked}
	first := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, ApplyManualStatus(st, model.StatusCompleted, first))
	require.NotNil(t, st.CompletedAt)
	assert.Equal(t, first, *st.CompletedAt)

	require.NoError(t, ApplyManualStatus(st, model.StatusNotStarted, first.Add(time.Hour)))
	require.NoError(t, ApplyManualStatus(st, model.StatusCompleted, first.Add(2*time.Hour)))
	assert.Equal(t, first, *st.CompletedAt)
}

func TestRegenerate_ArchivesQuestionsAndStatus(t *testing.T) {
	started := time.Now()
	st := &model.NodeStatus{
		NodeID: "A",
		Status: model.StatusCompleted,
		Questions: []model.Question{
			{ID: "q1", Status: model.QuestionPassed},
		},
		StartedAt:   &started,
		CompletedAt: &started,
	}

	Regenerate(st)

	assert.Equal(t, model.StatusNotStarted, st.Status)
	assert.Empty(t, st.Questions)
	assert.Len(t, st.ArchivedQuestions, 1)
	assert.Equal(t, model.StatusCompleted, st.PreviousStatus)
	assert.Nil(t, st.StartedAt)
	assert.Nil(t, st.CompletedAt)

	// A second regeneration keeps the earlier archive.
	st.Questions = []model.Question{{ID: "q2", Status: model.QuestionFailed}}
	Regenerate(st)
	assert.Len(t, st.ArchivedQuestions, 2)
}
