package builtin

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/windlant/mcp-toolbridge/internal/tools"
)

// GetTimeToolDef advertises get_time.
var GetTimeToolDef = mcp.NewTool("get_time",
	mcp.WithDescription("Get the current date and time, optionally in a given IANA time zone."),
	mcp.WithString("timezone",
		mcp.Description("IANA time zone name such as Europe/Berlin. Defaults to the server's local zone."),
	),
)

// now is replaced in tests.
var now = time.Now

// GetTimeTool returns the current time formatted as "2006-01-02 15:04:05 MST".
func GetTimeTool(args tools.ToolArguments) (string, error) {
	t := now()
	if raw, ok := args["timezone"]; ok && raw != nil {
		name, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("timezone must be a string, got %T", raw)
		}
		if name != "" {
			loc, err := time.LoadLocation(name)
			if err != nil {
				return "", fmt.Errorf("unknown time zone %q", name)
			}
			t = t.In(loc)
		}
	}
	return t.Format("2006-01-02 15:04:05 MST"), nil
}
