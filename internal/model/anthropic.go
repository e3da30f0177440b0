package model

import (
	"context"
	"encoding/json"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/windlant/mcp-toolbridge/internal/protocol"
)

// AnthropicModel talks to the Anthropic Messages API.
type AnthropicModel struct {
	client anthropic.Client
}

// NewAnthropicModel builds a client. The SDK's own retries are disabled;
// failures surface to the caller as-is.
func NewAnthropicModel(apiKey string, opts ...option.RequestOption) *AnthropicModel {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &AnthropicModel{client: anthropic.NewClient(append(base, opts...)...)}
}

func (m *AnthropicModel) CreateMessage(ctx context.Context, req Request) (*protocol.ModelResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  toAnthropicMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		tools, err := toAnthropicTools(req.Tools)
		if err != nil {
			return nil, err
		}
		params.Tools = tools
	}

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}
	return fromAnthropicContent(msg.Content)
}

func toAnthropicMessages(turns []protocol.Turn) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		out = append(out, anthropic.MessageParam{
			Role:    anthropic.MessageParamRole(t.Kind.Role()),
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(t.Text)},
		})
	}
	return out
}

// toAnthropicTools splits each JSON schema into the properties/required
// fields the SDK models, keeping anything else as extra fields.
func toAnthropicTools(descs []protocol.ToolDescriptor) ([]anthropic.ToolUnionParam, error) {
	out := make([]anthropic.ToolUnionParam, 0, len(descs))
	for _, d := range descs {
		var schema map[string]any
		if err := json.Unmarshal(d.InputSchema, &schema); err != nil {
			return nil, fmt.Errorf("tool %q: decode input schema: %w", d.Name, err)
		}

		input := anthropic.ToolInputSchemaParam{Properties: schema["properties"]}
		if req, ok := schema["required"].([]any); ok {
			for _, r := range req {
				if s, ok := r.(string); ok {
					input.Required = append(input.Required, s)
				}
			}
		}
		extra := map[string]any{}
		for k, v := range schema {
			switch k {
			case "type", "properties", "required":
			default:
				extra[k] = v
			}
		}
		if len(extra) > 0 {
			input.ExtraFields = extra
		}

		tool := anthropic.ToolParam{
			Name:        d.Name,
			InputSchema: input,
		}
		if d.Description != "" {
			tool.Description = anthropic.String(d.Description)
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out, nil
}

func fromAnthropicContent(content []anthropic.ContentBlockUnion) (*protocol.ModelResponse, error) {
	resp := &protocol.ModelResponse{Blocks: make([]protocol.ContentBlock, 0, len(content))}
	for _, cb := range content {
		switch block := cb.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Blocks = append(resp.Blocks, protocol.TextBlock(block.Text))
		case anthropic.ToolUseBlock:
			args, err := decodeArguments(block.Input)
			if err != nil {
				return nil, fmt.Errorf("tool_use %s: %w", block.Name, err)
			}
			resp.Blocks = append(resp.Blocks, protocol.ToolUseBlock(block.ID, block.Name, args))
		}
	}
	return resp, nil
}

// decodeArguments turns a tool-use input into a map. Absent, null and empty
// inputs all become an empty map.
func decodeArguments(raw []byte) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
