package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave/internal/core/model"
)

func TestGetCreatesSession(t *testing.T) {
	s := NewMemoryStore()

	sess, err := s.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Empty(t, sess.Nodes)
	assert.NotNil(t, sess.Relationships)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	sess.Nodes["1"] = &model.NodeInfo{ID: "1", Label: "Root"}

	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Nodes, "mutating a returned session must not leak into the store")
}

func TestMutatePersists(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.Mutate(ctx, "s1", func(sess *model.Session) error {
		sess.Nodes["1"] = &model.NodeInfo{ID: "1", Label: "Root"}
		sess.Progress["1"] = &model.NodeStatus{NodeID: "1", Status: model.StatusNotStarted}
		return nil
	})
	require.NoError(t, err)

	sess, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Contains(t, sess.Nodes, "1")
	assert.Equal(t, "Root", sess.Nodes["1"].Label)
	assert.Equal(t, model.StatusNotStarted, sess.Progress["1"].Status)
	assert.False(t, sess.UpdatedAt.IsZero())
}

func TestMutateErrorDiscardsChanges(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Mutate(ctx, "s1", func(sess *model.Session) error {
		sess.Nodes["1"] = &model.NodeInfo{ID: "1"}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sess, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, sess.Nodes)
}

func TestMutateSerializesPerSession(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = s.Mutate(ctx, "s1", func(sess *model.Session) error {
				st, ok := sess.Progress["counter"]
				if !ok {
					st = &model.NodeStatus{NodeID: "counter", Status: model.StatusNotStarted}
					sess.Progress["counter"] = st
				}
				st.Questions = append(st.Questions, model.Question{Text: "q"})
				return nil
			})
		}()
	}
	wg.Wait()

	sess, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, sess.Progress["counter"].Questions, n)
}
