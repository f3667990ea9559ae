package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edudesk/coursechat"
)

// Interface compliance check.
var _ coursechat.Tool = (*SearchTool)(nil)

// SearchTool searches course content through the retrieval collaborator and
// formats matched chunks into prose suitable for model consumption.
type SearchTool struct {
	retriever coursechat.Retriever
}

// NewSearchTool creates a SearchTool backed by the given retriever.
func NewSearchTool(retriever coursechat.Retriever) *SearchTool {
	return &SearchTool{retriever: retriever}
}

type searchArgs struct {
	Query        string `json:"query"`
	CourseName   string `json:"course_name"`
	LessonNumber *int   `json:"lesson_number"`
}

// Definition returns the tool definition for search_course_content.
func (t *SearchTool) Definition() coursechat.ToolDefinition {
	return coursechat.ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "What to search for in the course content"
				},
				"course_name": {
					"type": "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')"
				},
				"lesson_number": {
					"type": "integer",
					"description": "Specific lesson number to search within (e.g. 1, 2, 3)"
				}
			},
			"required": ["query"]
		}`),
	}
}

// Execute runs the search. Failures from the collaborator are surfaced
// verbatim as the result text so the model can react to them; they never
// cross the tool boundary as errors.
func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (string, []coursechat.Source) {
	var a searchArgs
	if err := decodeArgs(args, &a); err != nil {
		return fmt.Sprintf("Invalid arguments: %s", err), nil
	}
	if a.Query == "" {
		return "Invalid arguments: query is required", nil
	}

	results, err := t.retriever.Search(ctx, coursechat.SearchRequest{
		Query:  a.Query,
		Course: a.CourseName,
		Lesson: a.LessonNumber,
	})
	if err != nil {
		return err.Error(), nil
	}
	if results.Empty() {
		return emptySentinel(a.CourseName, a.LessonNumber), nil
	}
	return formatResults(results)
}

// emptySentinel distinguishes "searched, found nothing" from a failed
// search, echoing any filters that were applied.
func emptySentinel(course string, lesson *int) string {
	var b strings.Builder
	b.WriteString("No relevant content found")
	if course != "" {
		fmt.Fprintf(&b, " in course '%s'", course)
	}
	if lesson != nil {
		fmt.Fprintf(&b, " in lesson %d", *lesson)
	}
	b.WriteByte('.')
	return b.String()
}

func formatResults(results *coursechat.SearchResults) (string, []coursechat.Source) {
	blocks := make([]string, 0, len(results.Documents))
	sources := make([]coursechat.Source, 0, len(results.Documents))

	for i, doc := range results.Documents {
		var meta coursechat.ChunkMeta
		if i < len(results.Metadata) {
			meta = results.Metadata[i]
		}
		header := courseLabel(meta)
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", header, doc))
		sources = append(sources, coursechat.Source{Label: header, Link: meta.LessonLink})
	}
	return strings.Join(blocks, "\n\n"), sources
}

func courseLabel(meta coursechat.ChunkMeta) string {
	title := meta.CourseTitle
	if title == "" {
		title = "unknown"
	}
	if meta.LessonNumber != nil {
		return fmt.Sprintf("%s - Lesson %d", title, *meta.LessonNumber)
	}
	return title
}
