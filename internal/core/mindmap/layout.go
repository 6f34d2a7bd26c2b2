package mindmap

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mindweave/mindweave/internal/core/model"
)

// Layout spacing constants. Presentation concern; the grouping-by-depth and
// centering behavior is what callers rely on.
const (
	levelXSpacing    = 250.0
	levelYSpacing    = 200.0
	childRadius      = 250.0
	childYOffset     = 200.0
	childYFlattening = 0.5
)

// Layout converts generated nodes into positioned graph nodes plus the
// parent->child edge list. Nodes at the same depth are spread horizontally,
// centered around zero; each level steps down a fixed vertical offset.
func Layout(nodes []model.MapNode) ([]model.NodeInfo, []model.Edge) {
	byID := make(map[string]model.MapNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	levels := make(map[int][]model.MapNode)
	maxLevel := 0
	for _, n := range nodes {
		level := depthOf(n, byID)
		levels[level] = append(levels[level], n)
		if level > maxLevel {
			maxLevel = level
		}
	}

	infos := make([]model.NodeInfo, 0, len(nodes))
	var edges []model.Edge

	for level := 0; level <= maxLevel; level++ {
		atLevel := levels[level]
		width := float64(len(atLevel))
		for i, n := range atLevel {
			infos = append(infos, model.NodeInfo{
				ID:      n.ID,
				Label:   n.Label,
				Content: n.Content,
				Type:    "mindmap",
				Position: model.Position{
					X: (float64(i) - width/2) * levelXSpacing,
					Y: float64(level) * levelYSpacing,
				},
			})
			if n.ParentID != "" {
				edges = append(edges, model.Edge{
					ID:     fmt.Sprintf("e-%s-%s", n.ParentID, n.ID),
					Source: n.ParentID,
					Target: n.ID,
					Type:   "mindmap",
				})
			}
		}
	}

	return infos, edges
}

// depthOf counts steps to the root by walking parent pointers. A node with
// no (or dangling) parent is depth 0. Visited tracking guards against a
// malformed parent cycle.
func depthOf(n model.MapNode, byID map[string]model.MapNode) int {
	depth := 0
	visited := map[string]bool{n.ID: true}
	parentID := n.ParentID
	for parentID != "" && !visited[parentID] {
		visited[parentID] = true
		depth++
		parent, ok := byID[parentID]
		if !ok {
			break
		}
		parentID = parent.ParentID
	}
	return depth
}

// SemicirclePositions spreads count children in a semicircular arc below
// the parent, sweeping the angle from 0 to pi across the children.
func SemicirclePositions(parent model.Position, count int) []model.Position {
	positions := make([]model.Position, 0, count)
	for i := 0; i < count; i++ {
		fraction := 0.5
		if count > 1 {
			fraction = float64(i) / float64(count-1)
		}
		angle := math.Pi * fraction
		positions = append(positions, model.Position{
			X: parent.X + childRadius*math.Cos(angle),
			Y: parent.Y + childYOffset + childRadius*math.Sin(angle)*childYFlattening,
		})
	}
	return positions
}

func unmarshalNodes(payload json.RawMessage, out *model.GeneratedMap) error {
	return json.Unmarshal(payload, out)
}
