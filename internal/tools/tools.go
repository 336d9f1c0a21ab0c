// Package tools implements the agent's tool surface: a registry of
// named tools with declared parameters, validated before dispatch.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

// ParamSpec declares one tool parameter.
type ParamSpec struct {
	Type        string
	Description string
	Required    bool
}

// Tool is a capability the agent can invoke. Results must be
// JSON-serialisable.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]ParamSpec
	Call(ctx context.Context, params map[string]any) (any, error)
}

// Registry holds the tools available to the agent.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry from the given tools.
func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range ts {
		r.tools[t.Name()] = t
	}
	return r
}

// Register adds a tool, replacing any existing tool of the same name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute validates a tool call against the tool's declared parameters
// and dispatches it. Unknown tools, unknown parameters and missing
// required parameters are rejected before the tool runs.
func (r *Registry) Execute(ctx context.Context, call domain.ToolCall) (any, error) {
	t, ok := r.Get(call.Tool)
	if !ok {
		return nil, fmt.Errorf("unknown tool %q: %w", call.Tool, domain.ErrInvalidInput)
	}

	spec := t.Parameters()
	for name := range call.Parameters {
		if _, ok := spec[name]; !ok {
			return nil, fmt.Errorf("tool %q: unknown parameter %q: %w", call.Tool, name, domain.ErrInvalidInput)
		}
	}
	for name, p := range spec {
		if !p.Required {
			continue
		}
		if _, ok := call.Parameters[name]; !ok {
			return nil, fmt.Errorf("tool %q: missing required parameter %q: %w", call.Tool, name, domain.ErrInvalidInput)
		}
	}

	return t.Call(ctx, call.Parameters)
}

// Describe renders the registry as a prompt-ready tool listing.
func (r *Registry) Describe() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for _, name := range names {
		t := r.tools[name]
		out += fmt.Sprintf("- %s: %s\n", t.Name(), t.Description())

		params := t.Parameters()
		pnames := make([]string, 0, len(params))
		for p := range params {
			pnames = append(pnames, p)
		}
		sort.Strings(pnames)
		for _, p := range pnames {
			spec := params[p]
			req := "optional"
			if spec.Required {
				req = "required"
			}
			out += fmt.Sprintf("    %s (%s, %s): %s\n", p, spec.Type, req, spec.Description)
		}
	}
	return out
}

// stringParam extracts a string parameter from a call's parameter map.
func stringParam(params map[string]any, name string) (string, error) {
	v, ok := params[name]
	if !ok {
		return "", fmt.Errorf("missing parameter %q: %w", name, domain.ErrInvalidInput)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string: %w", name, domain.ErrInvalidInput)
	}
	return s, nil
}
