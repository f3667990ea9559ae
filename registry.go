package coursechat

import (
	"context"
	"fmt"
	"sync"
)

// Registry keeps the mapping between tool names and implementations. It is
// populated once at startup and read-only afterwards; the identity set of
// registered names stays constant for the lifetime of a conversation.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register inserts a tool when its name is not in use. A name collision is a
// programming error and fails at startup, not at query time.
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()
	if def.Name == "" {
		return fmt.Errorf("tool name is empty: %w", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("%q: %w", def.Name, ErrDuplicateTool)
	}
	r.tools[def.Name] = tool
	r.order = append(r.order, def.Name)
	return nil
}

// Definitions returns the tool definitions in registration order, for
// inclusion in provider requests.
func (r *Registry) Definitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches a tool call by name. It returns ErrToolNotFound when the
// name is not registered; with definitions sourced from the same registry
// that indicates a wiring bug, not a model mistake. Tool-reported failures
// come back as ordinary result text, never as an error.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, []Source, error) {
	r.mu.RLock()
	tool, exists := r.tools[name]
	r.mu.RUnlock()

	if !exists {
		return "", nil, fmt.Errorf("%q: %w", name, ErrToolNotFound)
	}
	text, sources := tool.Execute(ctx, args)
	return text, sources, nil
}
