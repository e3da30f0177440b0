package protocol

// Identity announced to MCP servers during the initialize handshake.
const (
	MCPClientName    = "mcp-toolbridge"
	MCPClientVersion = "1.0.0"
)

// NoContent is the payload used when a tool returns no content items.
const NoContent = "(no content returned)"
