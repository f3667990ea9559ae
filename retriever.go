package coursechat

import "context"

// Retriever is the external retrieval collaborator consumed by tools. The
// vector search engine itself lives behind this interface; this module never
// touches embeddings directly.
type Retriever interface {
	// Search returns content chunks matching the query, optionally filtered
	// by course and lesson. An empty result with a nil error means "no
	// matches"; a non-nil error means the call failed and its text is
	// surfaced verbatim as the tool's output.
	Search(ctx context.Context, req SearchRequest) (*SearchResults, error)

	// Outline resolves a course by (possibly partial) name and returns its
	// ordered lesson list. A nil outline with a nil error means no course
	// matched.
	Outline(ctx context.Context, courseName string) (*CourseOutline, error)

	// Courses returns catalog statistics for the API surface.
	Courses(ctx context.Context) (*CourseStats, error)
}

// SearchRequest is a content search with optional filters.
type SearchRequest struct {
	Query  string
	Course string // partial course name, empty = all courses
	Lesson *int   // nil = all lessons
	Limit  int    // 0 = collaborator default
}

// SearchResults holds matched chunks with positionally aligned metadata.
type SearchResults struct {
	Documents []string
	Metadata  []ChunkMeta
}

// Empty reports whether the search matched nothing.
func (r *SearchResults) Empty() bool {
	return r == nil || len(r.Documents) == 0
}

// ChunkMeta describes the origin of one matched chunk.
type ChunkMeta struct {
	CourseTitle  string
	LessonNumber *int
	LessonLink   string
}

// CourseOutline is a course identifier resolved to its lesson list.
type CourseOutline struct {
	Title   string
	Link    string
	Lessons []LessonRef
}

// LessonRef is one entry in a course outline.
type LessonRef struct {
	Number int
	Title  string
	Link   string
}

// CourseStats summarizes the catalog.
type CourseStats struct {
	TotalCourses int
	CourseTitles []string
}
