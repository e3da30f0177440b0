package stdio

import (
	"context"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlant/mcp-toolbridge/internal/errs"
	"github.com/windlant/mcp-toolbridge/internal/protocol"
	"github.com/windlant/mcp-toolbridge/internal/tools"
	"github.com/windlant/mcp-toolbridge/internal/tools/local"
)

func TestLaunchCommand(t *testing.T) {
	python := "python3"
	if runtime.GOOS == "windows" {
		python = "python"
	}
	tests := []struct {
		path    string
		command string
		args    []string
	}{
		{"server/weather.py", python, []string{"server/weather.py"}},
		{"build/index.js", "node", []string{"build/index.js"}},
		{"cmd/mcp_server_local/main.go", "go", []string{"run", "cmd/mcp_server_local/main.go"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			command, args, err := LaunchCommand(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.command, command)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestLaunchCommandUnsupported(t *testing.T) {
	for _, path := range []string{"server.rb", "server", "server.PY", "server.js.bak"} {
		_, _, err := LaunchCommand(path)
		assert.Equal(t, errs.KindUnsupportedToolServer, errs.KindOf(err), path)
	}
}

func newLocalClient(t *testing.T) *StdioToolClient {
	t.Helper()
	srv := local.NewServer(local.DefaultRegistry())
	c, err := NewInProcessToolClient(context.Background(), srv, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestListTools(t *testing.T) {
	c := newLocalClient(t)

	list, err := c.List(context.Background())
	require.NoError(t, err)

	byName := map[string]tools.RemoteTool{}
	for _, rt := range list {
		byName[rt.Name] = rt
	}
	require.Contains(t, byName, "echo")
	require.Contains(t, byName, "get_time")
	assert.Equal(t, "Return the given text unchanged.", byName["echo"].Description)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(byName["echo"].InputSchema, &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "text")
	assert.Equal(t, []any{"text"}, schema["required"])
}

func TestCallTool(t *testing.T) {
	c := newLocalClient(t)
	ctx := context.Background()

	res, err := c.Call(ctx, "echo", tools.ToolArguments{"text": "ping"})
	require.NoError(t, err)
	assert.Equal(t, protocol.ToolResult{Payload: "ping"}, res)

	res, err = c.Call(ctx, "echo", tools.ToolArguments{})
	require.NoError(t, err)
	assert.True(t, res.IsFault)
	assert.Contains(t, res.Payload, "text")
}

func TestCallUnknownToolIsChannelError(t *testing.T) {
	c := newLocalClient(t)

	_, err := c.Call(context.Background(), "does_not_exist", nil)
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := newLocalClient(t)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Call(context.Background(), "echo", tools.ToolArguments{"text": "x"})
	assert.ErrorIs(t, err, tools.ErrChannelClosed)
	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, tools.ErrChannelClosed)
}

func TestRenderContent(t *testing.T) {
	assert.Equal(t, protocol.NoContent, renderContent(nil))

	got := renderContent([]mcp.Content{
		mcp.NewTextContent("first"),
		mcp.NewImageContent("aGk=", "image/png"),
		mcp.NewTextContent("second"),
	})
	assert.Equal(t, "first\n[image image/png]\nsecond", got)
}
