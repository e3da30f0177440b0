// cmd/mcp_server_local/main.go
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/windlant/mcp-toolbridge/internal/tools/local"
)

// Serves the built-in tools over MCP on stdin/stdout. Point the client at it
// with MCP_SERVER_SCRIPT_PATH=cmd/mcp_server_local/main.go.
func main() {
	srv := local.NewServer(local.DefaultRegistry())
	if err := server.ServeStdio(srv); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
