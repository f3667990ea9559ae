package coursechat

import (
	"context"
	"fmt"
)

// Provider is a strategy pattern interface for LLM providers. Complete is a
// single stateless chat-completion call; providers own their own timeout and
// retry policy. Implementations must preserve the order of tool call blocks
// as emitted by the model.
type Provider interface {
	Complete(ctx context.Context, req Request) (AssistantMessage, error)
}

// ToolChoice tells the provider how the model may use the offered tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide whether to invoke a tool.
	ToolChoiceAuto ToolChoice = "auto"

	// ToolChoiceNone withholds tools even if definitions are present.
	ToolChoiceNone ToolChoice = "none"
)

// Request carries model selection and generation parameters.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Model        string // model ID, provider-specific; empty = provider default
	SystemPrompt string
	Messages     []Message
	Tools        []ToolDefinition
	ToolChoice   ToolChoice // ignored when Tools is empty
	MaxTokens    int        // 0 = provider default
	Temperature  *float64   // nil = provider default
}

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("at least one message is required: %w", ErrValidation)
	}
	return nil
}
