package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/edudesk/coursechat"
)

// Interface compliance check.
var _ coursechat.Retriever = (*Client)(nil)

// Client implements [coursechat.Retriever] over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new retrieval [Client] for the given service base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search queries the service for content chunks matching the request.
func (c *Client) Search(ctx context.Context, req coursechat.SearchRequest) (*coursechat.SearchResults, error) {
	body, err := json.Marshal(searchRequest{
		Query:        req.Query,
		CourseName:   req.Course,
		LessonNumber: req.Lesson,
		Limit:        req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w", err)
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, searchPath, bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	results := &coursechat.SearchResults{Documents: resp.Documents}
	for _, meta := range resp.Metadata {
		results.Metadata = append(results.Metadata, coursechat.ChunkMeta{
			CourseTitle:  meta.CourseTitle,
			LessonNumber: meta.LessonNumber,
			LessonLink:   meta.LessonLink,
		})
	}
	return results, nil
}

// Outline resolves a course name to its lesson list. A 404 from the service
// means no course matched and returns (nil, nil).
func (c *Client) Outline(ctx context.Context, courseName string) (*coursechat.CourseOutline, error) {
	path := outlinePath + "?course=" + url.QueryEscape(courseName)

	var resp outlineResponse
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}

	outline := &coursechat.CourseOutline{
		Title: resp.CourseTitle,
		Link:  resp.CourseLink,
	}
	for _, lesson := range resp.Lessons {
		outline.Lessons = append(outline.Lessons, coursechat.LessonRef{
			Number: lesson.LessonNumber,
			Title:  lesson.LessonTitle,
			Link:   lesson.LessonLink,
		})
	}
	return outline, nil
}

// Courses returns catalog statistics.
func (c *Client) Courses(ctx context.Context) (*coursechat.CourseStats, error) {
	var resp coursesResponse
	if err := c.do(ctx, http.MethodGet, coursesPath, nil, &resp); err != nil {
		return nil, err
	}
	return &coursechat.CourseStats{
		TotalCourses: resp.TotalCourses,
		CourseTitles: resp.CourseTitles,
	}, nil
}

var errNotFound = errors.New("not found")

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("retrieval: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("retrieval: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return parseHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("retrieval: decoding response: %w", err)
	}
	return nil
}

// parseHTTPError surfaces the service's error text as-is when present; the
// tools forward it verbatim to the model.
func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("retrieval: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return errors.New(apiErr.Error)
	}
	return fmt.Errorf("retrieval: HTTP %d: %s", resp.StatusCode, string(body))
}
