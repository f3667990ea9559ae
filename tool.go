package coursechat

import (
	"context"
	"encoding/json"
)

// ToolDefinition is the schema sent to the LLM describing a tool's
// capabilities. Definitions are immutable after registration.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Tool is a named, schema-described capability the model can invoke.
//
// Execute must not return an error: any internal failure is converted to a
// human-readable result string so the model can see and react to it as
// ordinary tool output. The returned sources carry provenance for any
// retrieved content and are collected per query by the engine.
type Tool interface {
	Definition() ToolDefinition
	Execute(ctx context.Context, args map[string]any) (string, []Source)
}

// Source is a provenance citation attached to a final answer.
type Source struct {
	Label string `json:"label"`
	Link  string `json:"link,omitempty"`
}
