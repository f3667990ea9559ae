// Package engine drives the bounded multi-round tool-calling loop between an
// LLM provider, the tool registry, and the session store.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/edudesk/coursechat"
)

const (
	// DefaultMaxRounds bounds tool-calling rounds per query.
	DefaultMaxRounds = 2

	// DefaultMaxTokens caps the length of each model response.
	DefaultMaxTokens = 800
)

// Engine orchestrates one query at a time per call; concurrent calls are
// safe because each owns a private message list. The registry and session
// store are the only shared collaborators and manage their own locking.
type Engine struct {
	provider    coursechat.Provider
	registry    *coursechat.Registry
	sessions    *coursechat.SessionStore
	logger      *slog.Logger
	model       string
	system      string
	maxRounds   int
	maxTokens   int
	temperature float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel sets the model ID for provider requests. Empty string means the
// provider uses its default model.
func WithModel(model string) Option {
	return func(e *Engine) { e.model = model }
}

// WithSystemPrompt replaces the default system instruction.
func WithSystemPrompt(prompt string) Option {
	return func(e *Engine) { e.system = prompt }
}

// WithMaxRounds sets the tool-calling round budget.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRounds = n
		}
	}
}

// WithMaxTokens sets the per-response token cap.
func WithMaxTokens(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine. Temperature is fixed at 0 for determinism.
func New(provider coursechat.Provider, registry *coursechat.Registry, sessions *coursechat.SessionStore, opts ...Option) *Engine {
	e := &Engine{
		provider:  provider,
		registry:  registry,
		sessions:  sessions,
		logger:    slog.Default(),
		system:    SystemPrompt,
		maxRounds: DefaultMaxRounds,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one query: a best-effort answer plus the
// provenance of any retrieved content, in retrieval order.
type Result struct {
	Answer  string
	Sources []coursechat.Source
}

// Answer runs the round loop for one query and records the resolved exchange
// in the session store. It never returns an error: upstream call failures
// are folded into the answer text, annotated with the round they occurred
// in, and tool failures degrade to a forced final answer over whatever
// partial tool context exists.
//
// The session id is opaque; an empty id skips history and recording.
func (e *Engine) Answer(ctx context.Context, query, sessionID string) Result {
	system := e.system
	if sessionID != "" {
		// History is read once, up front; it is immutable input to this run.
		if history := e.sessions.History(sessionID); history != "" {
			system += "\n\nPrevious conversation:\n" + history
		}
	}

	messages := []coursechat.Message{coursechat.UserMessage{
		Content:   []coursechat.ContentBlock{coursechat.TextBlock{Text: query}},
		Timestamp: time.Now(),
	}}

	var sources []coursechat.Source
	answer, exhausted := e.runRounds(ctx, system, &messages, &sources)
	if exhausted {
		answer = e.finalAnswer(ctx, system, messages)
	}

	if sessionID != "" {
		e.sessions.Append(sessionID, query, answer)
	}
	return Result{Answer: answer, Sources: sources}
}

// runRounds executes up to maxRounds model calls with tools offered. It
// returns the final answer, or exhausted=true when the loop ended without a
// direct answer and the caller must force one without tools.
func (e *Engine) runRounds(ctx context.Context, system string, messages *[]coursechat.Message, sources *[]coursechat.Source) (answer string, exhausted bool) {
	defs := e.registry.Definitions()

	for round := 1; round <= e.maxRounds; round++ {
		req := e.request(system, *messages)
		if len(defs) > 0 {
			req.Tools = defs
			req.ToolChoice = coursechat.ToolChoiceAuto
		}

		e.logger.Debug("calling model", "round", round, "messages", len(*messages))
		resp, err := e.provider.Complete(ctx, req)
		if err != nil {
			e.logger.Warn("model call failed", "round", round, "error", err)
			return fmt.Sprintf("Error in round %d: %v", round, err), false
		}

		if resp.StopReason != coursechat.StopToolUse {
			// The common path: a direct answer on the first call.
			return resp.Text(), false
		}

		*messages = append(*messages, resp)
		ok := e.executeRound(ctx, round, resp.ToolCalls(), messages, sources)
		if !ok {
			// Fail fast on unclean execution: no further rounds, ask the
			// model to answer with the partial tool context it has.
			return "", true
		}
	}
	return "", true
}

// executeRound runs the round's tool invocations strictly in request order
// and appends all outcomes as one user-role message. It returns false when
// any invocation failed to execute cleanly (dispatch-level failure, as
// opposed to a tool-reported error string).
func (e *Engine) executeRound(ctx context.Context, round int, calls []coursechat.ToolCallBlock, messages *[]coursechat.Message, sources *[]coursechat.Source) bool {
	clean := true
	results := make([]coursechat.ContentBlock, 0, len(calls))

	for _, call := range calls {
		text, err := e.executeCall(ctx, call, sources)
		if err != nil {
			e.logger.Error("tool execution failed", "round", round, "tool", call.Name, "error", err)
			text = fmt.Sprintf("Tool execution failed in round %d: %v", round, err)
			clean = false
		}
		results = append(results, coursechat.ToolResultBlock{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Text:       text,
			IsError:    err != nil,
		})
	}

	*messages = append(*messages, coursechat.UserMessage{Content: results, Timestamp: time.Now()})
	return clean
}

func (e *Engine) executeCall(ctx context.Context, call coursechat.ToolCallBlock, sources *[]coursechat.Source) (string, error) {
	args := map[string]any{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", fmt.Errorf("invalid arguments for %q: %w", call.Name, err)
		}
	}

	text, callSources, err := e.registry.Execute(ctx, call.Name, args)
	if err != nil {
		return "", err
	}
	*sources = append(*sources, callSources...)
	e.logger.Debug("tool executed", "tool", call.Name, "sources", len(callSources))
	return text, nil
}

// finalAnswer issues the forced final call: same accumulated messages, no
// tool definitions, guaranteeing termination even against a model that
// requests tools through the last allowed round.
func (e *Engine) finalAnswer(ctx context.Context, system string, messages []coursechat.Message) string {
	e.logger.Debug("forcing final answer", "messages", len(messages))
	resp, err := e.provider.Complete(ctx, e.request(system, messages))
	if err != nil {
		e.logger.Warn("final call failed", "error", err)
		return fmt.Sprintf("Error generating final response: %v", err)
	}
	return resp.Text()
}

func (e *Engine) request(system string, messages []coursechat.Message) coursechat.Request {
	temperature := e.temperature
	return coursechat.Request{
		Model:        e.model,
		SystemPrompt: system,
		Messages:     messages,
		MaxTokens:    e.maxTokens,
		Temperature:  &temperature,
	}
}
