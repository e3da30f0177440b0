package tools

import (
	"context"

	"github.com/windlant/mcp-toolbridge/internal/protocol"
)

// NoopToolClient stands in for a channel that is closed. Every call fails
// with ErrChannelClosed.
type NoopToolClient struct{}

func (n *NoopToolClient) Call(ctx context.Context, name string, args ToolArguments) (protocol.ToolResult, error) {
	return protocol.ToolResult{}, ErrChannelClosed
}

func (n *NoopToolClient) List(ctx context.Context) ([]RemoteTool, error) {
	return nil, ErrChannelClosed
}

func (n *NoopToolClient) Close() error {
	return nil
}
