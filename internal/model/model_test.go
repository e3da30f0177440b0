package model

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlant/mcp-toolbridge/internal/config"
	"github.com/windlant/mcp-toolbridge/internal/errs"
	"github.com/windlant/mcp-toolbridge/internal/protocol"
)

var weatherTool = protocol.ToolDescriptor{
	Name:        "get_weather",
	Description: "Weather for a city",
	InputSchema: json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}},"required":["city"],"additionalProperties":false}`),
}

// recorder serves canned JSON and keeps every decoded request body.
type recorder struct {
	path     string
	status   int
	response string
	bodies   []map[string]any
}

func (rec *recorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, rec.path, r.URL.Path)
		var body map[string]any
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rec.bodies = append(rec.bodies, body)

		w.Header().Set("Content-Type", "application/json")
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, rec.response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const anthropicToolUse = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-7-sonnet-20250219",
  "content": [
    {"type": "text", "text": "Let me check."},
    {"type": "tool_use", "id": "toolu_01", "name": "get_weather", "input": {"city": "Paris"}},
    {"type": "tool_use", "id": "toolu_02", "name": "get_time", "input": {}}
  ],
  "stop_reason": "tool_use",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 20}
}`

func TestAnthropicCreateMessage(t *testing.T) {
	rec := &recorder{path: "/v1/messages", response: anthropicToolUse}
	srv := rec.server(t)
	m := NewAnthropicModel("sk-test", option.WithBaseURL(srv.URL))

	resp, err := m.CreateMessage(context.Background(), Request{
		Model:     "claude-3-7-sonnet-20250219",
		MaxTokens: 1000,
		Messages: []protocol.Turn{
			{Kind: protocol.UserText, Text: "weather in Paris?"},
			{Kind: protocol.ToolResultAsUser, Text: "sunny"},
		},
		Tools: []protocol.ToolDescriptor{weatherTool},
	})
	require.NoError(t, err)

	require.Len(t, resp.Blocks, 3)
	assert.Equal(t, protocol.TextBlock("Let me check."), resp.Blocks[0])
	assert.Equal(t, protocol.ToolUseBlock("toolu_01", "get_weather", map[string]any{"city": "Paris"}), resp.Blocks[1])
	assert.Equal(t, protocol.ToolUseBlock("toolu_02", "get_time", map[string]any{}), resp.Blocks[2])

	require.Len(t, rec.bodies, 1)
	body := rec.bodies[0]
	assert.Equal(t, "claude-3-7-sonnet-20250219", body["model"])
	assert.EqualValues(t, 1000, body["max_tokens"])

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, "user", m.(map[string]any)["role"])
	}

	tools := body["tools"].([]any)
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]any)
	assert.Equal(t, "get_weather", tool["name"])
	assert.Equal(t, "Weather for a city", tool["description"])
	schema := tool["input_schema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"city"}, schema["required"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.Contains(t, schema["properties"], "city")
}

func TestAnthropicOmitsToolsOnFollowUp(t *testing.T) {
	rec := &recorder{path: "/v1/messages", response: `{"id":"msg_02","type":"message","role":"assistant","model":"m","content":[{"type":"text","text":"It is sunny."}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`}
	srv := rec.server(t)
	m := NewAnthropicModel("sk-test", option.WithBaseURL(srv.URL))

	resp, err := m.CreateMessage(context.Background(), Request{
		Model:     "m",
		MaxTokens: 1000,
		Messages:  []protocol.Turn{{Kind: protocol.UserText, Text: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []protocol.ContentBlock{protocol.TextBlock("It is sunny.")}, resp.Blocks)
	assert.NotContains(t, rec.bodies[0], "tools")
}

func TestAnthropicError(t *testing.T) {
	rec := &recorder{
		path:     "/v1/messages",
		status:   http.StatusTooManyRequests,
		response: `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`,
	}
	srv := rec.server(t)
	m := NewAnthropicModel("sk-test", option.WithBaseURL(srv.URL))

	_, err := m.CreateMessage(context.Background(), Request{
		Model:     "m",
		MaxTokens: 1000,
		Messages:  []protocol.Turn{{Kind: protocol.UserText, Text: "hi"}},
	})
	require.Error(t, err)
	assert.Len(t, rec.bodies, 1)
}

func TestOpenAICreateMessage(t *testing.T) {
	rec := &recorder{path: "/v1/chat/completions", response: `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "deepseek-chat",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": "",
      "tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "get_weather", "arguments": "{\"city\":\"Paris\"}"}}]
    }
  }]
}`}
	srv := rec.server(t)
	m := NewOpenAIModel("sk-test", srv.URL+"/v1")

	resp, err := m.CreateMessage(context.Background(), Request{
		Model:     "deepseek-chat",
		MaxTokens: 1000,
		Messages: []protocol.Turn{
			{Kind: protocol.UserText, Text: "weather?"},
			{Kind: protocol.AssistantText, Text: "which city?"},
		},
		Tools: []protocol.ToolDescriptor{weatherTool},
	})
	require.NoError(t, err)
	assert.Equal(t, []protocol.ContentBlock{
		protocol.ToolUseBlock("call_1", "get_weather", map[string]any{"city": "Paris"}),
	}, resp.Blocks)

	body := rec.bodies[0]
	assert.Equal(t, "auto", body["tool_choice"])
	msgs := body["messages"].([]any)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[1].(map[string]any)["role"])
	fn := body["tools"].([]any)[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "get_weather", fn["name"])
	params, err := json.Marshal(fn["parameters"])
	require.NoError(t, err)
	assert.JSONEq(t, string(weatherTool.InputSchema), string(params))
}

func TestOpenAINoChoices(t *testing.T) {
	rec := &recorder{path: "/v1/chat/completions", response: `{"id":"x","object":"chat.completion","choices":[]}`}
	srv := rec.server(t)
	m := NewOpenAIModel("sk-test", srv.URL+"/v1")

	_, err := m.CreateMessage(context.Background(), Request{Model: "gpt-4o", MaxTokens: 1000,
		Messages: []protocol.Turn{{Kind: protocol.UserText, Text: "hi"}}})
	assert.ErrorContains(t, err, "no choices")
	assert.NotContains(t, rec.bodies[0], "tools")
}

func TestMessageRolesFollowTurnKind(t *testing.T) {
	turns := []protocol.Turn{
		{Kind: protocol.UserText, Text: "weather?"},
		{Kind: protocol.AssistantText, Text: "which city?"},
		{Kind: protocol.ToolResultAsUser, Text: "sunny"},
	}
	want := []string{"user", "assistant", "user"}

	am := toAnthropicMessages(turns)
	require.Len(t, am, len(turns))
	for i, m := range am {
		assert.Equal(t, anthropic.MessageParamRole(want[i]), m.Role, "anthropic turn %d", i)
		require.Len(t, m.Content, 1)
		require.NotNil(t, m.Content[0].OfText)
		assert.Equal(t, turns[i].Text, m.Content[0].OfText.Text)
	}

	om := toOpenAIMessages(turns)
	require.Len(t, om, len(turns))
	for i, m := range om {
		assert.Equal(t, want[i], m.Role, "openai turn %d", i)
		assert.Equal(t, turns[i].Text, m.Content)
	}
}

func TestDecodeArguments(t *testing.T) {
	for _, raw := range []string{"", "null", `""`, "{}"} {
		args, err := decodeArguments([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, map[string]any{}, args, raw)
	}

	args, err := decodeArguments([]byte(`{"n":1,"tags":["a"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(1), "tags": []any{"a"}}, args)

	_, err = decodeArguments([]byte(`[1]`))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "sk"

	m, err := New(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicModel{}, m)

	cfg.Model.Provider = config.ProviderDeepSeek
	m, err = New(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIModel{}, m)

	cfg.Model.Provider = "bard"
	_, err = New(&cfg)
	assert.Equal(t, errs.KindConfig, errs.KindOf(err))

	cfg.Model.Provider = config.ProviderAnthropic
	cfg.APIKey = ""
	_, err = New(&cfg)
	assert.Equal(t, errs.KindConfig, errs.KindOf(err))
}
