package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/windlant/mcp-toolbridge/internal/errs"
	"github.com/windlant/mcp-toolbridge/internal/protocol"
	"github.com/windlant/mcp-toolbridge/internal/tools"
)

// Invoker forwards tool calls to the tool server unchanged. One call, one
// round-trip; nothing is cached.
type Invoker struct {
	client  tools.ToolClient
	timeout time.Duration
	logger  zerolog.Logger
}

func NewInvoker(client tools.ToolClient, timeout time.Duration, logger zerolog.Logger) *Invoker {
	if client == nil {
		client = &tools.NoopToolClient{}
	}
	return &Invoker{client: client, timeout: timeout, logger: logger}
}

// Invoke calls the tool. Nil arguments are sent as an empty object. A
// channel failure or timeout is a ToolInvocationError; a tool-reported
// failure is a normal result with IsFault set.
func (i *Invoker) Invoke(ctx context.Context, call protocol.ToolCallRequest) (protocol.ToolResult, error) {
	args := tools.ToolArguments(call.Arguments)
	if args == nil {
		args = tools.ToolArguments{}
	}

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := i.client.Call(ctx, call.Name, args)
	if err != nil {
		return protocol.ToolResult{}, errs.ToolInvocation("call "+call.Name, err)
	}
	i.logger.Debug().
		Str("tool", call.Name).
		Bool("fault", res.IsFault).
		Dur("took", time.Since(start)).
		Msg("tool call finished")
	return res, nil
}
