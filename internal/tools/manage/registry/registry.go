// Package registry holds the tools discovered from the tool server for the
// lifetime of a session.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/windlant/mcp-toolbridge/internal/errs"
	"github.com/windlant/mcp-toolbridge/internal/protocol"
	"github.com/windlant/mcp-toolbridge/internal/tools"
)

// Lister is the part of a tool channel discovery needs.
type Lister interface {
	List(ctx context.Context) ([]tools.RemoteTool, error)
}

// Registry is immutable once Discover returns.
type Registry struct {
	tools []protocol.ToolDescriptor
	index map[string]int
}

// Discover lists the server's tools once and maps them to the model-facing
// descriptor shape. Any failure is a DiscoveryError.
func Discover(ctx context.Context, l Lister) (*Registry, error) {
	if l == nil {
		return nil, errs.Discovery("list tools", tools.ErrChannelClosed)
	}
	remote, err := l.List(ctx)
	if err != nil {
		return nil, errs.Discovery("list tools", err)
	}

	r := &Registry{
		tools: make([]protocol.ToolDescriptor, 0, len(remote)),
		index: make(map[string]int, len(remote)),
	}
	for i, rt := range remote {
		desc, err := toDescriptor(rt)
		if err != nil {
			return nil, errs.Discovery(fmt.Sprintf("tool #%d", i), err)
		}
		if _, dup := r.index[desc.Name]; dup {
			return nil, errs.Discovery("tool "+desc.Name, errors.New("duplicate tool name"))
		}
		r.index[desc.Name] = len(r.tools)
		r.tools = append(r.tools, desc)
	}
	return r, nil
}

func toDescriptor(rt tools.RemoteTool) (protocol.ToolDescriptor, error) {
	if strings.TrimSpace(rt.Name) == "" {
		return protocol.ToolDescriptor{}, errors.New("tool has no name")
	}
	schema := bytes.TrimSpace(rt.InputSchema)
	if len(schema) == 0 || bytes.Equal(schema, []byte("null")) {
		schema = []byte(`{"type":"object"}`)
	}
	var probe map[string]any
	if err := json.Unmarshal(schema, &probe); err != nil {
		return protocol.ToolDescriptor{}, fmt.Errorf("tool %q: input schema is not a JSON object: %w", rt.Name, err)
	}
	return protocol.ToolDescriptor{
		Name:        rt.Name,
		Description: rt.Description,
		InputSchema: append(json.RawMessage(nil), schema...),
	}, nil
}

// AsModelToolSpec returns the descriptors in discovery order. The slice is a
// copy; descriptors share their schema bytes and must not be modified.
func (r *Registry) AsModelToolSpec() []protocol.ToolDescriptor {
	out := make([]protocol.ToolDescriptor, len(r.tools))
	copy(out, r.tools)
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

func (r *Registry) Len() int {
	return len(r.tools)
}
