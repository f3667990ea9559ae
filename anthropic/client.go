package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edudesk/coursechat"
)

// Interface compliance check.
var _ coursechat.Provider = (*Client)(nil)

// Client implements [coursechat.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends one request to the Anthropic Messages API and returns the
// assembled assistant message. Tool call blocks keep the order the model
// emitted them.
func (c *Client) Complete(ctx context.Context, req coursechat.Request) (coursechat.AssistantMessage, error) {
	if err := req.Validate(); err != nil {
		return coursechat.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}

	body, err := c.buildRequestBody(req)
	if err != nil {
		return coursechat.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return coursechat.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return coursechat.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return coursechat.AssistantMessage{}, parseHTTPError(resp)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return coursechat.AssistantMessage{}, fmt.Errorf("anthropic: decoding response: %w", err)
	}
	return parseResponse(apiResp), nil
}

func (c *Client) buildRequestBody(req coursechat.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	apiReq := apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      convertSystem(req.SystemPrompt),
		Messages:    convertMessages(req.Messages),
		Tools:       convertTools(req.Tools),
		Temperature: req.Temperature,
	}
	if len(req.Tools) > 0 {
		choice := req.ToolChoice
		if choice == "" {
			choice = coursechat.ToolChoiceAuto
		}
		apiReq.ToolChoice = &apiToolChoice{Type: string(choice)}
	}
	injectCacheMarkers(&apiReq)

	return json.Marshal(apiReq)
}

// convertSystem converts a system prompt string to an array of content blocks
// suitable for the Anthropic API. Returns nil when the prompt is empty.
func convertSystem(prompt string) []apiContentBlock {
	if prompt == "" {
		return nil
	}
	return []apiContentBlock{{Type: "text", Text: prompt}}
}

// injectCacheMarkers sets cache_control breakpoints on the stable parts of
// the request: the last system block and the last tool definition.
func injectCacheMarkers(req *apiRequest) {
	cc := &apiCacheControl{Type: "ephemeral"}
	if len(req.System) > 0 {
		req.System[len(req.System)-1].CacheControl = cc
	}
	if len(req.Tools) > 0 {
		req.Tools[len(req.Tools)-1].CacheControl = cc
	}
}

func convertMessages(msgs []coursechat.Message) []apiMessage {
	result := make([]apiMessage, 0, len(msgs))
	for _, msg := range msgs {
		switch m := msg.(type) {
		case coursechat.UserMessage:
			result = append(result, apiMessage{
				Role:    "user",
				Content: convertContentBlocks(m.Content),
			})
		case coursechat.AssistantMessage:
			result = append(result, apiMessage{
				Role:    "assistant",
				Content: convertContentBlocks(m.Content),
			})
		}
	}
	return result
}

func convertContentBlocks(blocks []coursechat.ContentBlock) []apiContentBlock {
	result := make([]apiContentBlock, 0, len(blocks))
	for _, b := range blocks {
		switch bl := b.(type) {
		case coursechat.TextBlock:
			result = append(result, apiContentBlock{Type: "text", Text: bl.Text})
		case coursechat.ToolCallBlock:
			result = append(result, apiContentBlock{Type: "tool_use", ID: bl.ID, Name: bl.Name, Input: bl.Arguments})
		case coursechat.ToolResultBlock:
			result = append(result, apiContentBlock{
				Type:      "tool_result",
				ToolUseID: bl.ToolCallID,
				Content:   []apiContentBlock{{Type: "text", Text: bl.Text}},
				IsError:   bl.IsError,
			})
		}
	}
	return result
}

func convertTools(tools []coursechat.ToolDefinition) []apiTool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]apiTool, len(tools))
	for i, t := range tools {
		result[i] = apiTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
	}
	return result
}

func parseResponse(resp apiResponse) coursechat.AssistantMessage {
	content := make([]coursechat.ContentBlock, 0, len(resp.Content))
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content = append(content, coursechat.TextBlock{Text: block.Text})
		case "tool_use":
			content = append(content, coursechat.ToolCallBlock{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	return coursechat.AssistantMessage{
		Content:       content,
		StopReason:    mapStopReason(resp.StopReason),
		RawStopReason: resp.StopReason,
		Usage: coursechat.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		Timestamp: time.Now(),
	}
}

func mapStopReason(raw string) coursechat.StopReason {
	switch raw {
	case "end_turn":
		return coursechat.StopEndTurn
	case "max_tokens":
		return coursechat.StopLength
	case "tool_use":
		return coursechat.StopToolUse
	default:
		return coursechat.StopUnknown
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("anthropic: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}
