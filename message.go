package coursechat

import (
	"encoding/json"
	"time"
)

// Message is a sealed interface representing a conversation message.
// The unexported marker method prevents external implementations.
// Role() returns the message's role without requiring a type switch.
type Message interface {
	isMessage()
	Role() Role
}

// UserMessage represents a message from the user. Besides plain text it may
// carry ToolResultBlocks: the engine folds all tool outcomes of a round into
// a single user-role message.
type UserMessage struct {
	Content   []ContentBlock
	Timestamp time.Time
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// AssistantMessage represents a message from the assistant.
type AssistantMessage struct {
	Content       []ContentBlock
	StopReason    StopReason
	RawStopReason string
	Usage         Usage
	Timestamp     time.Time
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// ToolCalls returns the tool call blocks in the message, preserving the
// order the model emitted them.
func (m AssistantMessage) ToolCalls() []ToolCallBlock {
	var calls []ToolCallBlock
	for _, b := range m.Content {
		if tc, ok := b.(ToolCallBlock); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// Text returns the concatenated text blocks of the message.
func (m AssistantMessage) Text() string {
	var text string
	for _, b := range m.Content {
		if tb, ok := b.(TextBlock); ok {
			text += tb.Text
		}
	}
	return text
}

// ContentBlock is a sealed interface representing a block of content.
// The unexported marker method prevents external implementations.
type ContentBlock interface {
	contentBlock()
}

// TextBlock contains text content.
type TextBlock struct {
	Text string
}

func (TextBlock) contentBlock() {}

// ToolCallBlock represents a tool invocation requested by the assistant.
type ToolCallBlock struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

func (ToolCallBlock) contentBlock() {}

// ToolResultBlock carries the outcome of one tool invocation, paired with
// the originating call through ToolCallID.
type ToolResultBlock struct {
	ToolCallID string
	ToolName   string
	Text       string
	IsError    bool
}

func (ToolResultBlock) contentBlock() {}

// Interface compliance checks.
var (
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}

	_ ContentBlock = TextBlock{}
	_ ContentBlock = ToolCallBlock{}
	_ ContentBlock = ToolResultBlock{}
)
