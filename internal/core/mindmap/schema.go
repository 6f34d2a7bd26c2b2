package mindmap

import "github.com/mindweave/mindweave/internal/llm"

var createMindMapTool = llm.ToolSchema{
	Name:        "create_mindmap",
	Description: "Create a hierarchical mindmap structure about a topic",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"nodes": map[string]interface{}{
				"type":        "array",
				"description": "List of nodes in the mindmap hierarchy",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"id":        map[string]interface{}{"type": "string", "description": "Unique identifier for the node"},
						"label":     map[string]interface{}{"type": "string", "description": "Short title for the node (max 50 chars)"},
						"content":   map[string]interface{}{"type": "string", "description": "Detailed explanation of the concept (100-300 chars)"},
						"parent_id": map[string]interface{}{"type": "string", "description": "ID of the parent node, omitted for the root node"},
					},
					"required": []string{"id", "label", "content"},
				},
			},
		},
		"required": []string{"nodes"},
	},
}

var createChildNodesTool = llm.ToolSchema{
	Name:        "create_child_nodes",
	Description: "Create child nodes for a specified parent node in a mindmap",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"nodes": map[string]interface{}{
				"type":        "array",
				"description": "List of child nodes to add to the parent",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"id":        map[string]interface{}{"type": "string", "description": "Unique identifier for the node"},
						"label":     map[string]interface{}{"type": "string", "description": "Short title for the node (max 50 chars)"},
						"content":   map[string]interface{}{"type": "string", "description": "Detailed explanation of the concept (100-300 chars)"},
						"parent_id": map[string]interface{}{"type": "string", "description": "ID of the parent node"},
					},
					"required": []string{"id", "label", "content", "parent_id"},
				},
			},
		},
		"required": []string{"nodes"},
	},
}
