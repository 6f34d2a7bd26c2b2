package relationships

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/logger"
)

func TestBuild_ParentsAndChildren(t *testing.T) {
	edges := []model.Edge{
		{ID: "e1", Source: "A", Target: "B"},
		{ID: "e2", Source: "A", Target: "C"},
		{ID: "e3", Source: "B", Target: "D"},
	}

	rels := Build(edges, logger.NewNop())

	assert.True(t, rels.Children["A"].Contains("B"))
	assert.True(t, rels.Children["A"].Contains("C"))
	assert.True(t, rels.Children["B"].Contains("D"))
	assert.True(t, rels.Parents["B"].Contains("A"))
	assert.True(t, rels.Parents["C"].Contains("A"))
	assert.True(t, rels.Parents["D"].Contains("B"))

	// Ids that appear on only one side still get empty entries on the other.
	assert.NotNil(t, rels.Parents["A"])
	assert.Empty(t, rels.Parents["A"])
	assert.NotNil(t, rels.Children["C"])
	assert.Empty(t, rels.Children["C"])
	assert.NotNil(t, rels.Children["D"])
	assert.Empty(t, rels.Children["D"])
}

func TestBuild_Idempotent(t *testing.T) {
	edges := []model.Edge{
		{ID: "e1", Source: "A", Target: "B"},
		{ID: "e2", Source: "B", Target: "C"},
		{ID: "e3", Source: "A", Target: "C"}, // C has two parents
	}

	first := Build(edges, logger.NewNop())
	second := Build(edges, logger.NewNop())

	assert.Equal(t, first, second)
	assert.Len(t, first.Parents["C"], 2)
}

func TestBuild_SkipsMalformedEdges(t *testing.T) {
	edges := []model.Edge{
		{ID: "e1", Source: "A", Target: "B"},
		{ID: "bad1", Source: "", Target: "B"},
		{ID: "bad2", Source: "A", Target: ""},
	}

	rels := Build(edges, logger.NewNop())

	assert.Len(t, rels.Children["A"], 1)
	assert.Len(t, rels.Parents["B"], 1)
}

func TestBuild_EmptyEdgeList(t *testing.T) {
	rels := Build(nil, logger.NewNop())

	assert.NotNil(t, rels.Parents)
	assert.NotNil(t, rels.Children)
	assert.Empty(t, rels.Parents)
	assert.Empty(t, rels.Children)
}
