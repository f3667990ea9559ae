// Package retrieval implements [coursechat.Retriever] against the retrieval
// service's HTTP API. The service owns document chunking, embeddings, and
// vector search; this client only speaks its narrow JSON surface.
package retrieval

const (
	searchPath  = "/v1/search"
	outlinePath = "/v1/outline"
	coursesPath = "/v1/courses"
)

type searchRequest struct {
	Query        string `json:"query"`
	CourseName   string `json:"course_name,omitempty"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

type searchResponse struct {
	Documents []string    `json:"documents"`
	Metadata  []chunkMeta `json:"metadata"`
}

type chunkMeta struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	LessonLink   string `json:"lesson_link,omitempty"`
}

type outlineResponse struct {
	CourseTitle string      `json:"course_title"`
	CourseLink  string      `json:"course_link,omitempty"`
	Lessons     []lessonRef `json:"lessons"`
}

type lessonRef struct {
	LessonNumber int    `json:"lesson_number"`
	LessonTitle  string `json:"lesson_title"`
	LessonLink   string `json:"lesson_link,omitempty"`
}

type coursesResponse struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

type errorResponse struct {
	Error string `json:"error"`
}
