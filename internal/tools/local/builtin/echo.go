package builtin

import (
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/windlant/mcp-toolbridge/internal/tools"
)

var EchoToolDef = mcp.NewTool("echo",
	mcp.WithDescription("Return the given text unchanged."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to echo back."),
	),
)

func EchoTool(args tools.ToolArguments) (string, error) {
	text, ok := args["text"].(string)
	if !ok {
		return "", errors.New("missing required argument: text")
	}
	return text, nil
}
