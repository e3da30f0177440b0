// internal/tools/local/local.go
package local

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/windlant/mcp-toolbridge/internal/tools"
	"github.com/windlant/mcp-toolbridge/internal/tools/local/builtin"
	"github.com/windlant/mcp-toolbridge/internal/tools/local/registry"
)

const (
	ServerName    = "mcp-server-local"
	ServerVersion = "1.0.0"
)

// DefaultRegistry returns the built-in tools.
func DefaultRegistry() *registry.Registry {
	r := registry.NewRegistry()
	r.Register(builtin.GetTimeToolDef, builtin.GetTimeTool)
	r.Register(builtin.EchoToolDef, builtin.EchoTool)
	return r
}

// NewServer builds an MCP server exposing every tool in r.
func NewServer(r *registry.Registry) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, t := range r.ListAll() {
		s.AddTool(t.Def, handler(t.Func))
	}
	return s
}

// handler adapts a ToolFunc. Tool failures are reported in the result with
// isError set, not as protocol errors, so the caller can show them to the model.
func handler(fn tools.ToolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		out, err := fn(tools.ToolArguments(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
