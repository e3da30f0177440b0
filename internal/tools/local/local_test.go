package local

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlant/mcp-toolbridge/internal/tools"
)

func TestDefaultRegistry(t *testing.T) {
	names := []string{}
	for _, tool := range DefaultRegistry().ListAll() {
		names = append(names, tool.Def.Name)
	}
	assert.Equal(t, []string{"get_time", "echo"}, names)
}

func TestHandler(t *testing.T) {
	h := handler(func(args tools.ToolArguments) (string, error) {
		if args["fail"] == true {
			return "", errors.New("asked to fail")
		}
		return "ok", nil
	})

	res, err := h(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	assert.Equal(t, "ok", text.Text)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"fail": true}
	res, err = h(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	text, ok = mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	assert.Equal(t, "asked to fail", text.Text)
}
