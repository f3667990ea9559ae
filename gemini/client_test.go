package gemini_test

import (
	"encoding/json"
	"testing"

	"github.com/edudesk/coursechat"
	"github.com/edudesk/coursechat/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertMessages_UserMessage(t *testing.T) {
	t.Parallel()
	msgs := []coursechat.Message{
		coursechat.UserMessage{Content: []coursechat.ContentBlock{coursechat.TextBlock{Text: "Hello"}}},
	}
	got := gemini.ConvertMessages(msgs)
	require.Len(t, got, 1)
	assert.Equal(t, "user", got[0].Role)
	require.Len(t, got[0].Parts, 1)
	assert.Equal(t, "Hello", got[0].Parts[0].Text)
}

func TestConvertMessages_AssistantMessage(t *testing.T) {
	t.Parallel()
	msgs := []coursechat.Message{
		coursechat.AssistantMessage{Content: []coursechat.ContentBlock{
			coursechat.TextBlock{Text: "Let me look that up."},
		}},
	}
	got := gemini.ConvertMessages(msgs)
	require.Len(t, got, 1)
	assert.Equal(t, "model", got[0].Role)
	require.Len(t, got[0].Parts, 1)
	assert.Equal(t, "Let me look that up.", got[0].Parts[0].Text)
}

func TestConvertMessages_ToolCallAndResult(t *testing.T) {
	t.Parallel()
	msgs := []coursechat.Message{
		coursechat.AssistantMessage{Content: []coursechat.ContentBlock{
			coursechat.ToolCallBlock{ID: "call_123", Name: "search_course_content", Arguments: json.RawMessage(`{"query":"variables"}`)},
		}},
		coursechat.UserMessage{Content: []coursechat.ContentBlock{
			coursechat.ToolResultBlock{ToolCallID: "call_123", ToolName: "search_course_content", Text: "matched chunks"},
		}},
	}
	got := gemini.ConvertMessages(msgs)
	require.Len(t, got, 2)

	// Assistant with tool call — ID passed through.
	assert.Equal(t, "model", got[0].Role)
	require.Len(t, got[0].Parts, 1)
	require.NotNil(t, got[0].Parts[0].FunctionCall)
	assert.Equal(t, "call_123", got[0].Parts[0].FunctionCall.ID)
	assert.Equal(t, "search_course_content", got[0].Parts[0].FunctionCall.Name)
	assert.Equal(t, "variables", got[0].Parts[0].FunctionCall.Args["query"])

	// Outcome — ID correlates, result text in "output" key.
	assert.Equal(t, "user", got[1].Role)
	require.Len(t, got[1].Parts, 1)
	require.NotNil(t, got[1].Parts[0].FunctionResponse)
	assert.Equal(t, "call_123", got[1].Parts[0].FunctionResponse.ID)
	assert.Equal(t, "search_course_content", got[1].Parts[0].FunctionResponse.Name)
	assert.Equal(t, "matched chunks", got[1].Parts[0].FunctionResponse.Response["output"])
}

func TestConvertMessages_ToolResultError(t *testing.T) {
	t.Parallel()
	msgs := []coursechat.Message{
		coursechat.UserMessage{Content: []coursechat.ContentBlock{
			coursechat.ToolResultBlock{ToolCallID: "call_err", ToolName: "search_course_content", Text: "Tool execution failed in round 1: dispatch error", IsError: true},
		}},
	}
	got := gemini.ConvertMessages(msgs)
	require.Len(t, got, 1)

	// Error result — uses "error" key.
	resp := got[0].Parts[0].FunctionResponse
	assert.Equal(t, "call_err", resp.ID)
	assert.Equal(t, "Tool execution failed in round 1: dispatch error", resp.Response["error"])
	assert.Nil(t, resp.Response["output"])
}

func TestConvertTools(t *testing.T) {
	t.Parallel()

	t.Run("empty yields nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, gemini.ConvertTools(nil))
	})

	t.Run("declarations carry the schema", func(t *testing.T) {
		t.Parallel()
		tools := []coursechat.ToolDefinition{{
			Name:        "search_course_content",
			Description: "Search course materials",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}`),
		}}

		got := gemini.ConvertTools(tools)
		require.Len(t, got, 1)
		require.Len(t, got[0].FunctionDeclarations, 1)
		decl := got[0].FunctionDeclarations[0]
		assert.Equal(t, "search_course_content", decl.Name)
		assert.Equal(t, "Search course materials", decl.Description)
		schema, ok := decl.ParametersJsonSchema.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "object", schema["type"])
	})
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	t.Run("text answer", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "MCP is a protocol."},
				}},
				FinishReason: genai.FinishReasonStop,
			}},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     25,
				CandidatesTokenCount: 8,
			},
		}

		msg, err := gemini.ParseResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, coursechat.StopEndTurn, msg.StopReason)
		assert.Equal(t, "MCP is a protocol.", msg.Text())
		assert.Equal(t, coursechat.Usage{InputTokens: 25, OutputTokens: 8}, msg.Usage)
	})

	t.Run("function call presence implies tool use", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{FunctionCall: &genai.FunctionCall{ID: "fc_1", Name: "search_course_content", Args: map[string]any{"query": "variables"}}},
				}},
				FinishReason: genai.FinishReasonStop,
			}},
		}

		msg, err := gemini.ParseResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, coursechat.StopToolUse, msg.StopReason)
		calls := msg.ToolCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, "fc_1", calls[0].ID)
		assert.JSONEq(t, `{"query":"variables"}`, string(calls[0].Arguments))
	})

	t.Run("missing call ids are synthesized", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{FunctionCall: &genai.FunctionCall{Name: "search_course_content"}},
					{FunctionCall: &genai.FunctionCall{Name: "get_course_outline"}},
				}},
			}},
		}

		msg, err := gemini.ParseResponse(resp)
		require.NoError(t, err)
		calls := msg.ToolCalls()
		require.Len(t, calls, 2)
		assert.Equal(t, "call-0", calls[0].ID)
		assert.Equal(t, "call-1", calls[1].ID)
	})

	t.Run("max tokens maps to length stop", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: []*genai.Part{{Text: "truncat"}}},
				FinishReason: genai.FinishReasonMaxTokens,
			}},
		}

		msg, err := gemini.ParseResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, coursechat.StopLength, msg.StopReason)
	})

	t.Run("thought parts are skipped", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "internal reasoning", Thought: true},
					{Text: "The answer."},
				}},
				FinishReason: genai.FinishReasonStop,
			}},
		}

		msg, err := gemini.ParseResponse(resp)
		require.NoError(t, err)
		assert.Equal(t, "The answer.", msg.Text())
	})

	t.Run("no candidates is an error", func(t *testing.T) {
		t.Parallel()
		_, err := gemini.ParseResponse(&genai.GenerateContentResponse{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no candidates")
	})
}
