package relationships

import (
	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/logger"
)

// Build derives the parents/children adjacency index from a flat edge list.
// Every id that appears on either side of an edge gets an entry in both
// maps, so lookups never need nil checks. Edges missing a source or target
// are skipped as malformed input. O(E), deterministic, idempotent.
func Build(edges []model.Edge, log *logger.Logger) *model.Relationships {
	rels := model.NewRelationships()

	for _, edge := range edges {
		if edge.Source == "" || edge.Target == "" {
			log.Warn("skipping edge with missing source or target", "edge_id", edge.ID)
			continue
		}

		ensure(rels, edge.Source)
		ensure(rels, edge.Target)

		rels.Children[edge.Source].Add(edge.Target)
		rels.Parents[edge.Target].Add(edge.Source)
	}

	return rels
}

func ensure(rels *model.Relationships, id string) {
	if _, ok := rels.Parents[id]; !ok {
		rels.Parents[id] = make(model.IDSet)
	}
	if _, ok := rels.Children[id]; !ok {
		rels.Children[id] = make(model.IDSet)
	}
}
