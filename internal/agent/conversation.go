package agent

import (
	"github.com/windlant/mcp-toolbridge/internal/protocol"
)

// Conversation is the append-only history of one query. Appended turns are
// never changed or removed.
type Conversation struct {
	turns []protocol.Turn
}

// NewConversation starts a conversation with the user's query.
func NewConversation(query string) *Conversation {
	return &Conversation{turns: []protocol.Turn{{Kind: protocol.UserText, Text: query}}}
}

// AppendToolResult re-injects a tool's output as user content. Model
// services reject empty text, so an empty payload becomes a placeholder.
func (c *Conversation) AppendToolResult(res protocol.ToolResult) {
	text := res.Payload
	if text == "" {
		text = protocol.NoContent
	}
	c.turns = append(c.turns, protocol.Turn{Kind: protocol.ToolResultAsUser, Text: text})
}

// Turns returns a snapshot; later appends do not affect it.
func (c *Conversation) Turns() []protocol.Turn {
	out := make([]protocol.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}
