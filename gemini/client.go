package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edudesk/coursechat"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ coursechat.Provider = (*Client)(nil)

// Client implements [coursechat.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID used when the request leaves it empty.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Complete sends one request to the Gemini API and returns the assembled
// assistant message. Function calls keep the order the model emitted them.
func (c *Client) Complete(ctx context.Context, req coursechat.Request) (coursechat.AssistantMessage, error) {
	if err := req.Validate(); err != nil {
		return coursechat.AssistantMessage{}, fmt.Errorf("gemini: %w", err)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, ConvertMessages(req.Messages), buildConfig(req))
	if err != nil {
		return coursechat.AssistantMessage{}, fmt.Errorf("gemini: %w", err)
	}
	return ParseResponse(resp)
}

func buildConfig(req coursechat.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Tools:           ConvertTools(req.Tools),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}

	if len(req.Tools) > 0 && req.ToolChoice == coursechat.ToolChoiceNone {
		config.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeNone,
			},
		}
	}

	return config
}

// ConvertMessages converts domain Messages to genai Contents.
// Exported for testing.
func ConvertMessages(msgs []coursechat.Message) []*genai.Content {
	var result []*genai.Content
	for _, msg := range msgs {
		switch m := msg.(type) {
		case coursechat.UserMessage:
			result = append(result, &genai.Content{
				Role:  "user",
				Parts: convertParts(m.Content),
			})
		case coursechat.AssistantMessage:
			result = append(result, &genai.Content{
				Role:  "model",
				Parts: convertParts(m.Content),
			})
		}
	}
	return result
}

func convertParts(blocks []coursechat.ContentBlock) []*genai.Part {
	var parts []*genai.Part
	for _, b := range blocks {
		switch bl := b.(type) {
		case coursechat.TextBlock:
			parts = append(parts, &genai.Part{Text: bl.Text})
		case coursechat.ToolCallBlock:
			// Arguments is json.RawMessage — always valid JSON from domain types.
			var args map[string]any
			_ = json.Unmarshal(bl.Arguments, &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   bl.ID,
					Name: bl.Name,
					Args: args,
				},
			})
		case coursechat.ToolResultBlock:
			var response map[string]any
			if bl.IsError {
				response = map[string]any{"error": bl.Text}
			} else {
				response = map[string]any{"output": bl.Text}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       bl.ToolCallID,
					Name:     bl.ToolName,
					Response: response,
				},
			})
		}
	}
	return parts
}

// ConvertTools converts domain tool definitions to genai Tools.
// Exported for testing.
func ConvertTools(tools []coursechat.ToolDefinition) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		// InputSchema is json.RawMessage — always valid JSON from domain types.
		var schema map[string]any
		_ = json.Unmarshal(t.InputSchema, &schema)
		decls[i] = &genai.FunctionDeclaration{
			Name:                 t.Name,
			Description:          t.Description,
			ParametersJsonSchema: schema,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// ParseResponse converts a Gemini response into the domain message type.
// Gemini has no tool_use stop reason; the presence of function calls decides
// between StopToolUse and StopEndTurn. Exported for testing.
func ParseResponse(resp *genai.GenerateContentResponse) (coursechat.AssistantMessage, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return coursechat.AssistantMessage{}, fmt.Errorf("gemini: response has no candidates")
	}
	candidate := resp.Candidates[0]

	var content []coursechat.ContentBlock
	toolUse := false
	for i, part := range candidate.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return coursechat.AssistantMessage{}, fmt.Errorf("gemini: encoding function call args: %w", err)
			}
			id := part.FunctionCall.ID
			if id == "" {
				// Gemini may omit call ids; synthesize stable ones so
				// outcome pairing still holds.
				id = fmt.Sprintf("call-%d", i)
			}
			content = append(content, coursechat.ToolCallBlock{
				ID:        id,
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
			toolUse = true
		case part.Text != "" && !part.Thought:
			content = append(content, coursechat.TextBlock{Text: part.Text})
		}
	}

	msg := coursechat.AssistantMessage{
		Content:       content,
		StopReason:    coursechat.StopEndTurn,
		RawStopReason: string(candidate.FinishReason),
		Timestamp:     time.Now(),
	}
	switch {
	case toolUse:
		msg.StopReason = coursechat.StopToolUse
	case candidate.FinishReason == genai.FinishReasonMaxTokens:
		msg.StopReason = coursechat.StopLength
	case candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != "":
		msg.StopReason = coursechat.StopUnknown
	}

	if resp.UsageMetadata != nil {
		msg.Usage = coursechat.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return msg, nil
}
