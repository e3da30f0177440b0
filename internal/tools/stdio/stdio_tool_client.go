package stdio

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/windlant/mcp-toolbridge/internal/errs"
	"github.com/windlant/mcp-toolbridge/internal/protocol"
	"github.com/windlant/mcp-toolbridge/internal/tools"
)

// StdioToolClient talks MCP to a tool server over an mcp-go client.
type StdioToolClient struct {
	client *client.Client
	server string
	logger zerolog.Logger

	mu     sync.Mutex // one request in flight
	closed bool
}

// LaunchCommand picks the interpreter for a server script from its extension.
func LaunchCommand(scriptPath string) (string, []string, error) {
	switch filepath.Ext(scriptPath) {
	case ".py":
		if runtime.GOOS == "windows" {
			return "python", []string{scriptPath}, nil
		}
		return "python3", []string{scriptPath}, nil
	case ".js":
		return "node", []string{scriptPath}, nil
	case ".go":
		return "go", []string{"run", scriptPath}, nil
	default:
		return "", nil, errs.UnsupportedToolServer(scriptPath)
	}
}

// NewStdioToolClient starts the server script as a child process and performs
// the MCP initialize handshake. extraArgs are appended after the script path.
func NewStdioToolClient(ctx context.Context, scriptPath string, extraArgs, env []string, logger zerolog.Logger) (*StdioToolClient, error) {
	command, args, err := LaunchCommand(scriptPath)
	if err != nil {
		return nil, err
	}
	args = append(args, extraArgs...)

	logger.Debug().Str("command", command).Strs("args", args).Msg("starting tool server")
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, errs.Discovery("start tool server", err)
	}
	return connect(ctx, c, scriptPath, logger)
}

// NewInProcessToolClient connects to an MCP server running in this process.
func NewInProcessToolClient(ctx context.Context, srv *server.MCPServer, logger zerolog.Logger) (*StdioToolClient, error) {
	c, err := client.NewInProcessClient(srv)
	if err != nil {
		return nil, errs.Discovery("create in-process client", err)
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, errs.Discovery("start in-process client", err)
	}
	return connect(ctx, c, "in-process", logger)
}

func connect(ctx context.Context, c *client.Client, name string, logger zerolog.Logger) (*StdioToolClient, error) {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    protocol.MCPClientName,
		Version: protocol.MCPClientVersion,
	}

	res, err := c.Initialize(ctx, req)
	if err != nil {
		_ = c.Close()
		return nil, errs.Discovery("initialize", err)
	}

	logger.Info().
		Str("server", res.ServerInfo.Name).
		Str("version", res.ServerInfo.Version).
		Str("protocol", res.ProtocolVersion).
		Msg("tool server initialized")

	return &StdioToolClient{
		client: c,
		server: name,
		logger: logger,
	}, nil
}

// List retrieves all available tools from the server.
func (c *StdioToolClient) List(ctx context.Context) ([]tools.RemoteTool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, tools.ErrChannelClosed
	}

	res, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("tools/list: %w", err)
	}

	out := make([]tools.RemoteTool, 0, len(res.Tools))
	for _, t := range res.Tools {
		rt, err := toRemoteTool(t)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, nil
}

// Call invokes a tool by name with arguments.
func (c *StdioToolClient) Call(ctx context.Context, name string, args tools.ToolArguments) (protocol.ToolResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return protocol.ToolResult{}, tools.ErrChannelClosed
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = map[string]any(args)

	res, err := c.client.CallTool(ctx, req)
	if err != nil {
		return protocol.ToolResult{}, fmt.Errorf("tools/call %s: %w", name, err)
	}

	return protocol.ToolResult{
		Payload: renderContent(res.Content),
		IsFault: res.IsError,
	}, nil
}

// Close shuts down the connection and the child process. Safe to call twice.
func (c *StdioToolClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Debug().Str("server", c.server).Msg("closing tool server")
	return c.client.Close()
}

// toRemoteTool goes through the tool's own JSON encoding so a raw input schema
// survives untouched.
func toRemoteTool(t mcp.Tool) (tools.RemoteTool, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return tools.RemoteTool{}, fmt.Errorf("encode tool %q: %w", t.Name, err)
	}
	var rt tools.RemoteTool
	if err := json.Unmarshal(data, &rt); err != nil {
		return tools.RemoteTool{}, fmt.Errorf("decode tool %q: %w", t.Name, err)
	}
	return rt, nil
}

func renderContent(items []mcp.Content) string {
	if len(items) == 0 {
		return protocol.NoContent
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := mcp.AsTextContent(item); ok {
			parts = append(parts, text.Text)
			continue
		}
		if img, ok := mcp.AsImageContent(item); ok {
			parts = append(parts, fmt.Sprintf("[image %s]", img.MIMEType))
			continue
		}
		if res, ok := mcp.AsEmbeddedResource(item); ok {
			if text, ok := mcp.AsTextResourceContents(res.Resource); ok {
				parts = append(parts, text.Text)
				continue
			}
			if blob, ok := mcp.AsBlobResourceContents(res.Resource); ok {
				parts = append(parts, fmt.Sprintf("[resource %s (%s)]", blob.URI, blob.MIMEType))
				continue
			}
		}
		raw, err := json.Marshal(item)
		if err != nil {
			parts = append(parts, fmt.Sprintf("%v", item))
			continue
		}
		parts = append(parts, string(raw))
	}
	return strings.Join(parts, "\n")
}
