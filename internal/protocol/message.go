// internal/protocol/message.go
package protocol

import "encoding/json"

// TurnKind tags a Turn.
type TurnKind int

const (
	UserText TurnKind = iota
	AssistantText
	// ToolResultAsUser carries a tool's output re-injected as user content.
	ToolResultAsUser
)

func (k TurnKind) String() string {
	switch k {
	case UserText:
		return "user"
	case AssistantText:
		return "assistant"
	case ToolResultAsUser:
		return "tool_result"
	default:
		return "unknown"
	}
}

// Role is the chat role the turn is sent under. Tool results travel as user.
func (k TurnKind) Role() string {
	if k == AssistantText {
		return "assistant"
	}
	return "user"
}

// Turn is one entry of the conversation history sent to the model.
type Turn struct {
	Kind TurnKind
	Text string
}

// ToolDescriptor is the model-facing description of a discovered tool.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ToolCallRequest is a structured tool invocation requested by the model.
type ToolCallRequest struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResult is the normalized outcome of one tool call.
type ToolResult struct {
	Payload string
	IsFault bool
}

// BlockType tags a ContentBlock.
type BlockType int

const (
	TextBlockType BlockType = iota
	ToolUseBlockType
)

// ContentBlock is either a text block or a tool-use block.
type ContentBlock struct {
	Type    BlockType
	Text    string
	ToolUse ToolCallRequest
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: TextBlockType, Text: text}
}

func ToolUseBlock(id, name string, args map[string]any) ContentBlock {
	return ContentBlock{Type: ToolUseBlockType, ToolUse: ToolCallRequest{ID: id, Name: name, Arguments: args}}
}

// ModelResponse is the ordered content returned by one model call.
type ModelResponse struct {
	Blocks []ContentBlock
}
