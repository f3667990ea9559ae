package coursechat_test

import (
	"encoding/json"
	"testing"

	"github.com/edudesk/coursechat"
	"github.com/stretchr/testify/assert"
)

func TestMessage_Role(t *testing.T) {
	t.Parallel()

	assert.Equal(t, coursechat.RoleUser, coursechat.UserMessage{}.Role())
	assert.Equal(t, coursechat.RoleAssistant, coursechat.AssistantMessage{}.Role())
}

func TestAssistantMessage_ToolCalls(t *testing.T) {
	t.Parallel()

	t.Run("preserves emission order and skips text", func(t *testing.T) {
		t.Parallel()
		msg := coursechat.AssistantMessage{Content: []coursechat.ContentBlock{
			coursechat.TextBlock{Text: "I'll look that up."},
			coursechat.ToolCallBlock{ID: "tc_1", Name: "search_course_content", Arguments: json.RawMessage(`{"query":"a"}`)},
			coursechat.ToolCallBlock{ID: "tc_2", Name: "get_course_outline", Arguments: json.RawMessage(`{"course_name":"b"}`)},
		}}

		calls := msg.ToolCalls()
		assert.Len(t, calls, 2)
		assert.Equal(t, "tc_1", calls[0].ID)
		assert.Equal(t, "tc_2", calls[1].ID)
	})

	t.Run("no calls yields nil", func(t *testing.T) {
		t.Parallel()
		msg := coursechat.AssistantMessage{Content: []coursechat.ContentBlock{coursechat.TextBlock{Text: "done"}}}
		assert.Empty(t, msg.ToolCalls())
	})
}

func TestAssistantMessage_Text(t *testing.T) {
	t.Parallel()

	msg := coursechat.AssistantMessage{Content: []coursechat.ContentBlock{
		coursechat.TextBlock{Text: "Hello, "},
		coursechat.ToolCallBlock{ID: "tc_1", Name: "search_course_content"},
		coursechat.TextBlock{Text: "world."},
	}}
	assert.Equal(t, "Hello, world.", msg.Text())
}

func TestUsage_Add(t *testing.T) {
	t.Parallel()

	u := coursechat.Usage{InputTokens: 10, OutputTokens: 5}
	u.Add(coursechat.Usage{InputTokens: 3, OutputTokens: 7})
	assert.Equal(t, coursechat.Usage{InputTokens: 13, OutputTokens: 12}, u)
}
