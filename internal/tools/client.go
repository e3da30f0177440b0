package tools

import (
	"context"
	"errors"

	"github.com/windlant/mcp-toolbridge/internal/protocol"
)

// ToolClient is the channel to a tool server. Implementations may be a child
// process over stdio, an in-process server, or a test fake.
type ToolClient interface {
	// List returns the tools advertised by the server.
	List(ctx context.Context) ([]RemoteTool, error)

	// Call invokes the named tool. A transport failure is returned as an error;
	// a tool that ran and reported failure comes back with IsFault set.
	Call(ctx context.Context, name string, args ToolArguments) (protocol.ToolResult, error)

	// Close releases the channel (kills the child process, if any).
	Close() error
}

// ErrChannelClosed means the tool channel was closed or never established.
var ErrChannelClosed = errors.New("tool channel closed")
