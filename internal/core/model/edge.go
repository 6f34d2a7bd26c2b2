package model

// Edge is a directed parent -> child relationship. Type is a display tag
// with no semantic effect on the core.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}
