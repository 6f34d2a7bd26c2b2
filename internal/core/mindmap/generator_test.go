package mindmap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/logger"
)

func TestGenerateRoot_Success(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `{"nodes":[{"id":"1","label":"Go Concurrency","content":"Goroutines, channels and the memory model."}]}`,
	}
	g := NewGenerator(mockLLM, logger.NewNop())

	root := g.GenerateRoot(context.Background(), "Go Concurrency")

	assert.Equal(t, "1", root.ID)
	assert.Equal(t, "Go Concurrency", root.Label)
	assert.Empty(t, root.ParentID)
}

func TestGenerateRoot_FallbackOnError(t *testing.T) {
	mockLLM := &MockLLMClient{Err: errors.New("upstream down")}
	g := NewGenerator(mockLLM, logger.NewNop())

	root := g.GenerateRoot(context.Background(), "Photosynthesis")

	assert.Equal(t, RootID, root.ID)
	assert.Equal(t, "Photosynthesis", root.Label)
	assert.Contains(t, root.Content, "Photosynthesis")
	assert.Empty(t, root.ParentID)
}

func TestGenerateRoot_FallbackOnEmptyNodeList(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"nodes":[]}`}
	g := NewGenerator(mockLLM, logger.NewNop())

	root := g.GenerateRoot(context.Background(), "Linear Algebra")

	assert.Equal(t, RootID, root.ID)
	assert.Equal(t, "Linear Algebra", root.Label)
}

func TestGenerateChildren_ForcesParentAndCapsCount(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `{"nodes":[
			{"id":"1.1","label":"A","content":"a","parent_id":"wrong"},
			{"id":"1.2","label":"B","content":"b"},
			{"id":"1.3","label":"C","content":"c"}
		]}`,
	}
	g := NewGenerator(mockLLM, logger.NewNop())

	children, err := g.GenerateChildren(context.Background(), model.MapNode{ID: "1", Label: "Root", Content: "root"}, 2)

	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "1", children[0].ParentID)
	assert.Equal(t, "1", children[1].ParentID)
}

func TestGenerateChildren_EmptyListIsError(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"nodes":[]}`}
	g := NewGenerator(mockLLM, logger.NewNop())

	_, err := g.GenerateChildren(context.Background(), model.MapNode{ID: "1"}, 4)
	assert.Error(t, err)
}

func TestGenerateTree_TotalGenerationGuarantee(t *testing.T) {
	mockLLM := &MockLLMClient{Err: errors.New("every call fails")}
	g := NewGenerator(mockLLM, logger.NewNop())

	nodes := g.GenerateTree(context.Background(), "Thermodynamics", 3, 4)

	require.NotEmpty(t, nodes)
	assert.Equal(t, RootID, nodes[0].ID)
	assert.Empty(t, nodes[0].ParentID)
}

func TestGenerateTree_DepthBound(t *testing.T) {
	mockLLM := &MockLLMClient{
		ResponseQueue: []string{
			`{"nodes":[{"id":"1","label":"Root","content":"r"}]}`,
			`{"nodes":[{"id":"1.1","label":"A","content":"a"},{"id":"1.2","label":"B","content":"b"}]}`,
		},
	}
	g := NewGenerator(mockLLM, logger.NewNop())

	nodes := g.GenerateTree(context.Background(), "Topic", 2, 4)

	require.Len(t, nodes, 3)
	// Only the root was expanded: one root call plus one child call.
	assert.Equal(t, 2, mockLLM.StructuredCalls)

	byID := make(map[string]model.MapNode)
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, n := range nodes {
		chain := 0
		p := n.ParentID
		for p != "" {
			chain++
			p = byID[p].ParentID
		}
		assert.LessOrEqual(t, chain, 1) // max_depth - 1
	}
}

func TestGenerateTree_RetriesThenSucceeds(t *testing.T) {
	mockLLM := &MockLLMClient{
		ResponseQueue: []string{
			`{"nodes":[{"id":"1","label":"Root","content":"r"}]}`,
			"", // attempt 1: no structured output
			"", // attempt 2: no structured output
			`{"nodes":[{"id":"1.1","label":"A","content":"a"}]}`, // attempt 3
		},
	}
	g := NewGenerator(mockLLM, logger.NewNop())

	nodes := g.GenerateTree(context.Background(), "Topic", 2, 4)

	require.Len(t, nodes, 2)
	assert.Equal(t, "1.1", nodes[1].ID)
	assert.Equal(t, 4, mockLLM.StructuredCalls)
}

func TestGenerateTree_FailedExpansionDoesNotAbortSiblings(t *testing.T) {
	mockLLM := &MockLLMClient{
		ResponseQueue: []string{
			`{"nodes":[{"id":"1","label":"Root","content":"r"}]}`,
			`{"nodes":[{"id":"1.1","label":"A","content":"a"},{"id":"1.2","label":"B","content":"b"}]}`,
			"", "", "", // expansion of 1.1 exhausts all three attempts
			`{"nodes":[{"id":"1.2.1","label":"C","content":"c"}]}`, // 1.2 still expands
		},
	}
	g := NewGenerator(mockLLM, logger.NewNop())

	nodes := g.GenerateTree(context.Background(), "Topic", 3, 4)

	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"1", "1.1", "1.2", "1.2.1"}, ids)
}

func TestGenerateTree_MinimumDepthIsOne(t *testing.T) {
	mockLLM := &MockLLMClient{
		Response: `{"nodes":[{"id":"1","label":"Root","content":"r"}]}`,
	}
	g := NewGenerator(mockLLM, logger.NewNop())

	nodes := g.GenerateTree(context.Background(), "Topic", 0, 4)

	assert.Len(t, nodes, 1)
	assert.Equal(t, 1, mockLLM.StructuredCalls)
}

func TestNormalizeChildIDs_SynthesizesMissingAndDuplicateIDs(t *testing.T) {
	taken := map[string]bool{"1": true, "1.1": true}
	children := []model.MapNode{
		{ID: "1.1"}, // duplicate
		{ID: ""},    // missing
		{ID: "1.4"}, // fine
	}

	NormalizeChildIDs("1", children, taken)

	assert.Equal(t, "1.2", children[0].ID)
	assert.Equal(t, "1.3", children[1].ID)
	assert.Equal(t, "1.4", children[2].ID)
	assert.True(t, taken["1.2"])
	assert.True(t, taken["1.4"])
}
