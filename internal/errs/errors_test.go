package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  Kind
		fatal bool
	}{
		{"config", Config("ANTHROPIC_API_KEY is not set"), KindConfig, true},
		{"unsupported", UnsupportedToolServer("server.rb"), KindUnsupportedToolServer, true},
		{"discovery", Discovery("list tools", errors.New("eof")), KindDiscovery, true},
		{"tool", ToolInvocation("call weather", errors.New("closed")), KindToolInvocation, false},
		{"model", ModelService("create message", errors.New("429")), KindModelService, false},
		{"wrapped", fmt.Errorf("query: %w", ToolInvocation("call", context.DeadlineExceeded)), KindToolInvocation, false},
		{"plain", errors.New("boom"), KindUnknown, false},
		{"nil", nil, KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestErrorUnwrapAndIs(t *testing.T) {
	err := ToolInvocation("call weather", context.DeadlineExceeded)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, &Error{Kind: KindToolInvocation})
	assert.NotErrorIs(t, err, &Error{Kind: KindModelService})
	assert.Equal(t, "tool invocation error: call weather: context deadline exceeded", err.Error())
}

func TestUnsupportedToolServerMessage(t *testing.T) {
	err := UnsupportedToolServer("server.rb")
	assert.Contains(t, err.Error(), "server.rb")
	assert.Contains(t, err.Error(), ".js, .py or .go")
}
