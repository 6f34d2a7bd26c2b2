package model

// Position is a 2D layout coordinate. Advisory only; owned by presentation.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeInfo is a concept vertex as stored in a session. The id is immutable;
// label and content may be overwritten by later writes.
type NodeInfo struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Content  string   `json:"content"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
}

// NodeContext is a related node's label/content pair, passed as situating
// context to generation prompts.
type NodeContext struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// MapNode is a node as produced by the content generator, before layout.
// Hierarchy is encoded by ParentID; the root has none.
type MapNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
}

// GeneratedMap is the structured payload shape the LLM returns for
// root and child node generation.
type GeneratedMap struct {
	Nodes []MapNode `json:"nodes"`
}
