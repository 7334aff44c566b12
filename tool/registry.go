package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/chainmesh/core"
)

// Registry is an immutable name -> Tool lookup built once with a uniqueness
// check. Names keep registration order.
type Registry struct {
	tools map[string]Tool
	names []string
}

// NewRegistry builds a registry. Nil tools, empty names and duplicate names
// are configuration errors.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools)), names: make([]string, 0, len(tools))}
	for i, t := range tools {
		if t == nil {
			return nil, core.NewConfigurationError("tool registry", "tools", fmt.Sprintf("tool %d is nil", i))
		}
		name := t.Name()
		if name == "" {
			return nil, core.NewConfigurationError("tool registry", "name", fmt.Sprintf("tool %d has an empty name", i))
		}
		if _, dup := r.tools[name]; dup {
			return nil, core.NewConfigurationError("tool registry", "name", fmt.Sprintf("duplicate tool name %q", name))
		}
		r.tools[name] = t
		r.names = append(r.names, name)
	}
	return r, nil
}

// Get returns the tool registered under the exact name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.names) }

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Describe renders the tool catalogue, one "- name: description" line per tool.
func (r *Registry) Describe() string {
	lines := make([]string, 0, len(r.names))
	for _, n := range r.names {
		lines = append(lines, fmt.Sprintf("- %s: %s", n, r.tools[n].Description()))
	}
	return strings.Join(lines, "\n")
}

// Dispatch looks name up by exact match and calls the tool. The returned
// observation is always usable as loop input; err is a *ToolError when the
// tool is missing (code NOT_FOUND) or failed.
func (r *Registry) Dispatch(ctx context.Context, name, input string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		err := NewToolError(name, "tool not found", CodeNotFound)
		return fmt.Sprintf("Error: tool '%s' not found. Available tools: %s.", name, strings.Join(r.names, ", ")), err
	}
	return Observe(ctx, t, input)
}
