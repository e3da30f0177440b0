package tools

import "encoding/json"

// ToolArguments is the JSON object passed to a tool call.
type ToolArguments map[string]any

// ToolFunc is the signature of a locally implemented tool.
// It returns plain text rather than JSON.
type ToolFunc func(ToolArguments) (string, error)

// RemoteTool is a tool descriptor in the shape the tool server sends it.
type RemoteTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}
