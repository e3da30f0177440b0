package model

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/windlant/mcp-toolbridge/internal/protocol"
)

// DeepSeekBaseURL is the OpenAI-compatible DeepSeek endpoint.
const DeepSeekBaseURL = "https://api.deepseek.com/v1"

// OpenAIModel talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, DeepSeek, a local Ollama /v1).
type OpenAIModel struct {
	client *openai.Client
}

// NewOpenAIModel creates a client. An empty baseURL uses the OpenAI default.
func NewOpenAIModel(apiKey, baseURL string) *OpenAIModel {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIModel{client: openai.NewClientWithConfig(cfg)}
}

func (m *OpenAIModel) CreateMessage(ctx context.Context, req Request) (*protocol.ModelResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages:  toOpenAIMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		chatReq.Tools = toOpenAITools(req.Tools)
		chatReq.ToolChoice = "auto"
	}

	resp, err := m.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}

	msg := resp.Choices[0].Message
	out := &protocol.ModelResponse{}
	if msg.Content != "" {
		out.Blocks = append(out.Blocks, protocol.TextBlock(msg.Content))
	}
	for _, call := range msg.ToolCalls {
		args, err := decodeArguments([]byte(call.Function.Arguments))
		if err != nil {
			return nil, fmt.Errorf("tool call %s: %w", call.Function.Name, err)
		}
		out.Blocks = append(out.Blocks, protocol.ToolUseBlock(call.ID, call.Function.Name, args))
	}
	return out, nil
}

func toOpenAIMessages(turns []protocol.Turn) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		out = append(out, openai.ChatCompletionMessage{Role: t.Kind.Role(), Content: t.Text})
	}
	return out
}

func toOpenAITools(descs []protocol.ToolDescriptor) []openai.Tool {
	out := make([]openai.Tool, 0, len(descs))
	for _, d := range descs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.InputSchema,
			},
		})
	}
	return out
}
