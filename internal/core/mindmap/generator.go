package mindmap

import (
	"context"
	"fmt"

	"github.com/mindweave/mindweave/internal/core/model"
	"github.com/mindweave/mindweave/internal/llm"
	"github.com/mindweave/mindweave/internal/logger"
)

// RootID is the fixed id the root node is asked to carry.
const RootID = "1"

// maxChildAttempts bounds child generation per node: one attempt plus two
// retries. After that the node stays a leaf and generation moves on.
const maxChildAttempts = 3

// Generator turns a topic string into a tree of nodes by breadth-first
// expansion, one LLM call per expanded node. Upstream failures never
// escape: the root degrades to deterministic fallback content and a failed
// expansion degrades to zero children for that node only.
type Generator struct {
	llm llm.Client
	log *logger.Logger
}

func NewGenerator(client llm.Client, log *logger.Logger) *Generator {
	return &Generator{llm: client, log: log}
}

// GenerateRoot produces the single root node for a topic. It cannot fail:
// any transport error, malformed payload, or empty node list yields the
// fallback root instead.
func (g *Generator) GenerateRoot(ctx context.Context, topic string) model.MapNode {
	prompt := fmt.Sprintf(rootPromptTemplate, topic, RootID)

	payload, err := g.llm.GenerateStructured(ctx, llm.StructuredRequest{
		Prompt:      prompt,
		System:      rootSystemPrompt,
		Tool:        createMindMapTool,
		Temperature: 0.2,
	})
	if err != nil {
		g.log.Warn("root node generation failed, using fallback", "topic", topic, "error", err)
		return fallbackRoot(topic)
	}

	var generated model.GeneratedMap
	if err := unmarshalNodes(payload, &generated); err != nil || len(generated.Nodes) == 0 {
		g.log.Warn("root node payload unusable, using fallback", "topic", topic)
		return fallbackRoot(topic)
	}

	root := generated.Nodes[0]
	if root.ID == "" {
		root.ID = RootID
	}
	if root.Label == "" {
		root.Label = topic
	}
	if root.Content == "" {
		root.Content = fallbackRootContent(topic)
	}
	root.ParentID = ""

	g.log.Info("generated root node", "topic", topic, "label", root.Label)
	return root
}

// GenerateChildren asks for up to maxChildren child nodes of one parent.
// A transport error or empty node list is returned as an error so the
// caller can apply its retry policy.
func (g *Generator) GenerateChildren(ctx context.Context, parent model.MapNode, maxChildren int) ([]model.MapNode, error) {
	prompt := fmt.Sprintf(childPromptTemplate, parent.ID, parent.Label, parent.Content, maxChildren, parent.ID)

	payload, err := g.llm.GenerateStructured(ctx, llm.StructuredRequest{
		Prompt:      prompt,
		System:      childSystemPrompt,
		Tool:        createChildNodesTool,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("child generation for %s: %w", parent.ID, err)
	}

	var generated model.GeneratedMap
	if err := unmarshalNodes(payload, &generated); err != nil {
		return nil, fmt.Errorf("child generation for %s: %w", parent.ID, err)
	}
	if len(generated.Nodes) == 0 {
		return nil, fmt.Errorf("child generation for %s: empty node list", parent.ID)
	}

	children := generated.Nodes
	if len(children) > maxChildren {
		children = children[:maxChildren]
	}
	for i := range children {
		children[i].ParentID = parent.ID
	}
	return children, nil
}

// GenerateTree builds the full map level by level. The returned list is
// never empty and always starts with the root. Expansion failures degrade
// node by node; siblings and already produced nodes are unaffected.
func (g *Generator) GenerateTree(ctx context.Context, topic string, maxDepth, maxChildren int) []model.MapNode {
	if maxDepth < 1 {
		maxDepth = 1
	}
	g.log.Info("starting mindmap generation", "topic", topic, "max_depth", maxDepth)

	root := g.GenerateRoot(ctx, topic)
	allNodes := []model.MapNode{root}
	taken := map[string]bool{root.ID: true}

	type queued struct {
		node  model.MapNode
		depth int
	}
	queue := []queued{{node: root, depth: 1}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			continue
		}

		children := g.ChildrenWithRetry(ctx, current.node, maxChildren)
		NormalizeChildIDs(current.node.ID, children, taken)

		for _, child := range children {
			allNodes = append(allNodes, child)
			queue = append(queue, queued{node: child, depth: current.depth + 1})
		}
	}

	g.log.Info("completed mindmap generation", "topic", topic, "nodes", len(allNodes))
	return allNodes
}

// ChildrenWithRetry applies the expansion retry policy: up to
// maxChildAttempts attempts, after which the node stays a leaf.
func (g *Generator) ChildrenWithRetry(ctx context.Context, parent model.MapNode, maxChildren int) []model.MapNode {
	for attempt := 1; attempt <= maxChildAttempts; attempt++ {
		children, err := g.GenerateChildren(ctx, parent, maxChildren)
		if err == nil {
			return children
		}
		if attempt < maxChildAttempts {
			g.log.Warn("child generation attempt failed, retrying",
				"parent_id", parent.ID, "attempt", attempt, "error", err)
			continue
		}
		g.log.Warn("child generation exhausted retries, node stays a leaf",
			"parent_id", parent.ID, "error", err)
	}
	return nil
}

// NormalizeChildIDs gives every child a usable unique id. Caller-suggested
// ids are kept when free; missing or duplicate ids become "{parent}.{n}".
func NormalizeChildIDs(parentID string, children []model.MapNode, taken map[string]bool) {
	n := 0
	for i := range children {
		id := children[i].ID
		if id == "" || taken[id] {
			for {
				n++
				id = fmt.Sprintf("%s.%d", parentID, n)
				if !taken[id] {
					break
				}
			}
			children[i].ID = id
		}
		taken[id] = true
	}
}

func fallbackRoot(topic string) model.MapNode {
	return model.MapNode{
		ID:      RootID,
		Label:   topic,
		Content: fallbackRootContent(topic),
	}
}

func fallbackRootContent(topic string) string {
	return fmt.Sprintf("Overview of %s: A comprehensive exploration of this subject and its key aspects.", topic)
}
