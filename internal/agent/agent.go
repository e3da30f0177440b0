package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/windlant/mcp-toolbridge/internal/errs"
	"github.com/windlant/mcp-toolbridge/internal/model"
	"github.com/windlant/mcp-toolbridge/internal/protocol"
	"github.com/windlant/mcp-toolbridge/internal/tools"
)

// MaxTokens is sent with every model call.
const MaxTokens = 1000

// ToolSpec supplies the tool list advertised on the first model call.
type ToolSpec interface {
	AsModelToolSpec() []protocol.ToolDescriptor
}

type Options struct {
	Model     model.Model
	ModelName string
	Tools     ToolSpec
	Client    tools.ToolClient
	// Timeout bounds each model call and each tool call. Zero means none.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Agent negotiates one query at a time between the model and the tool server.
type Agent struct {
	model     model.Model
	modelName string
	tools     ToolSpec
	invoker   *Invoker
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewAgent(opts Options) *Agent {
	return &Agent{
		model:     opts.Model,
		modelName: opts.ModelName,
		tools:     opts.Tools,
		invoker:   NewInvoker(opts.Client, opts.Timeout, opts.Logger),
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}
}

// state is the position of a query in the negotiation.
type state int

const (
	awaitingUserQuery state = iota
	firstModelCall
	toolRound
	secondModelCall
	done
)

func (s state) String() string {
	switch s {
	case awaitingUserQuery:
		return "awaiting_user_query"
	case firstModelCall:
		return "first_model_call"
	case toolRound:
		return "tool_round"
	case secondModelCall:
		return "second_model_call"
	case done:
		return "done"
	default:
		return "unknown"
	}
}

type negotiation struct {
	agent  *Agent
	conv   *Conversation
	output []string
	state  state
	logger zerolog.Logger
}

func (n *negotiation) enter(s state) {
	n.logger.Debug().Stringer("from", n.state).Stringer("to", s).Msg("negotiation state")
	n.state = s
}

// ProcessQuery runs the negotiation for one user query and returns the
// output fragments joined by newlines.
//
// Every tool-use block in the first response gets exactly one tool call and
// one follow-up model call without tools. Only the follow-up's first block
// is used; a tool request there is not executed.
//
// On error the returned string holds the output gathered so far.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (string, error) {
	logger := a.logger
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		logger = *l
	}
	n := &negotiation{
		agent:  a,
		conv:   NewConversation(query),
		state:  awaitingUserQuery,
		logger: logger,
	}

	n.enter(firstModelCall)
	resp, err := n.call(ctx)
	if err != nil {
		return "", err
	}

	for _, block := range resp.Blocks {
		switch block.Type {
		case protocol.TextBlockType:
			n.output = append(n.output, block.Text)
		case protocol.ToolUseBlockType:
			if err := n.toolRound(ctx, block.ToolUse); err != nil {
				return n.result(), err
			}
		}
	}

	n.enter(done)
	return n.result(), nil
}

func (n *negotiation) toolRound(ctx context.Context, call protocol.ToolCallRequest) error {
	n.enter(toolRound)
	n.output = append(n.output, traceLine(call))

	res, err := n.agent.invoker.Invoke(ctx, call)
	if err != nil {
		return err
	}
	n.conv.AppendToolResult(res)

	n.enter(secondModelCall)
	follow, err := n.call(ctx)
	if err != nil {
		return err
	}

	text := ""
	if len(follow.Blocks) > 0 {
		first := follow.Blocks[0]
		if first.Type == protocol.TextBlockType {
			text = first.Text
		} else {
			n.logger.Debug().Str("tool", first.ToolUse.Name).Msg("dropping tool request in follow-up response")
		}
	}
	n.output = append(n.output, text)
	return nil
}

// call sends the conversation. Tools are advertised only on the first call.
func (n *negotiation) call(ctx context.Context) (*protocol.ModelResponse, error) {
	a := n.agent
	req := model.Request{
		Model:     a.modelName,
		MaxTokens: MaxTokens,
		Messages:  n.conv.Turns(),
	}
	op := "follow-up call"
	if n.state == firstModelCall {
		op = "first call"
		if a.tools != nil {
			req.Tools = a.tools.AsModelToolSpec()
		}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := a.model.CreateMessage(ctx, req)
	if err != nil {
		return nil, errs.ModelService(op, err)
	}
	n.logger.Debug().
		Str("op", op).
		Int("turns", len(req.Messages)).
		Int("tools", len(req.Tools)).
		Int("blocks", len(resp.Blocks)).
		Dur("took", time.Since(start)).
		Msg("model call finished")
	return resp, nil
}

func (n *negotiation) result() string {
	return strings.Join(n.output, "\n")
}

func traceLine(call protocol.ToolCallRequest) string {
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(args); err != nil {
		return fmt.Sprintf("[Calling tool %s with args %v]", call.Name, args)
	}
	return fmt.Sprintf("[Calling tool %s with args %s]", call.Name, bytes.TrimRight(buf.Bytes(), "\n"))
}
