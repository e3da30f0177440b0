package registry

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/windlant/mcp-toolbridge/internal/tools"
)

// Tool pairs an advertised definition with its implementation.
type Tool struct {
	Def  mcp.Tool
	Func tools.ToolFunc
}

// Registry stores the built-in tools served by the local server, in
// registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Registering the same name twice replaces the
// implementation but keeps the original position.
func (r *Registry) Register(def mcp.Tool, fn tools.ToolFunc) {
	if _, exists := r.tools[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.tools[def.Name] = Tool{Def: def, Func: fn}
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// ListAll returns every registered tool in registration order.
func (r *Registry) ListAll() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
