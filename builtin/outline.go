package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edudesk/coursechat"
)

// Interface compliance check.
var _ coursechat.Tool = (*OutlineTool)(nil)

// OutlineTool resolves a course identifier to its ordered lesson list.
type OutlineTool struct {
	retriever coursechat.Retriever
}

// NewOutlineTool creates an OutlineTool backed by the given retriever.
func NewOutlineTool(retriever coursechat.Retriever) *OutlineTool {
	return &OutlineTool{retriever: retriever}
}

type outlineArgs struct {
	CourseName string `json:"course_name"`
}

// Definition returns the tool definition for get_course_outline.
func (t *OutlineTool) Definition() coursechat.ToolDefinition {
	return coursechat.ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get the outline of a course: its title, link, and complete lesson list",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"course_name": {
					"type": "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')"
				}
			},
			"required": ["course_name"]
		}`),
	}
}

// Execute fetches and formats the course outline.
func (t *OutlineTool) Execute(ctx context.Context, args map[string]any) (string, []coursechat.Source) {
	var a outlineArgs
	if err := decodeArgs(args, &a); err != nil {
		return fmt.Sprintf("Invalid arguments: %s", err), nil
	}
	if a.CourseName == "" {
		return "Invalid arguments: course_name is required", nil
	}

	outline, err := t.retriever.Outline(ctx, a.CourseName)
	if err != nil {
		return err.Error(), nil
	}
	if outline == nil {
		return fmt.Sprintf("No course found matching '%s'.", a.CourseName), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", outline.Title)
	if outline.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", outline.Link)
	}
	fmt.Fprintf(&b, "Lessons (%d):", len(outline.Lessons))
	for _, lesson := range outline.Lessons {
		fmt.Fprintf(&b, "\n%d. %s", lesson.Number, lesson.Title)
		if lesson.Link != "" {
			fmt.Fprintf(&b, " (%s)", lesson.Link)
		}
	}

	return b.String(), []coursechat.Source{{Label: outline.Title, Link: outline.Link}}
}
