package model

import (
	"context"

	"github.com/windlant/mcp-toolbridge/internal/protocol"
)

// Request is one call to the model service. Tools is nil on follow-up calls.
type Request struct {
	Model     string
	MaxTokens int
	Messages  []protocol.Turn
	Tools     []protocol.ToolDescriptor
}

// Model is the common interface of all language-model backends.
type Model interface {
	// CreateMessage sends the conversation and returns the ordered content
	// blocks of the reply. Implementations do not retry.
	CreateMessage(ctx context.Context, req Request) (*protocol.ModelResponse, error)
}
