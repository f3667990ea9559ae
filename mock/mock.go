// Package mock provides test doubles for coursechat interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/edudesk/coursechat"
)

// Interface compliance checks.
var (
	_ coursechat.Provider  = (*Provider)(nil)
	_ coursechat.Retriever = (*Retriever)(nil)
	_ coursechat.Tool      = (*Tool)(nil)
)

// Provider is a test double for coursechat.Provider.
// Set CompleteFn before calling Complete.
type Provider struct {
	CompleteFn func(ctx context.Context, req coursechat.Request) (coursechat.AssistantMessage, error)
}

// Complete delegates to CompleteFn.
func (p *Provider) Complete(ctx context.Context, req coursechat.Request) (coursechat.AssistantMessage, error) {
	return p.CompleteFn(ctx, req)
}

// Retriever is a test double for coursechat.Retriever.
// Set the function fields for the methods you need.
type Retriever struct {
	SearchFn  func(ctx context.Context, req coursechat.SearchRequest) (*coursechat.SearchResults, error)
	OutlineFn func(ctx context.Context, courseName string) (*coursechat.CourseOutline, error)
	CoursesFn func(ctx context.Context) (*coursechat.CourseStats, error)
}

// Search delegates to SearchFn.
func (r *Retriever) Search(ctx context.Context, req coursechat.SearchRequest) (*coursechat.SearchResults, error) {
	return r.SearchFn(ctx, req)
}

// Outline delegates to OutlineFn.
func (r *Retriever) Outline(ctx context.Context, courseName string) (*coursechat.CourseOutline, error) {
	return r.OutlineFn(ctx, courseName)
}

// Courses delegates to CoursesFn.
func (r *Retriever) Courses(ctx context.Context) (*coursechat.CourseStats, error) {
	return r.CoursesFn(ctx)
}

// Tool is a test double for coursechat.Tool.
type Tool struct {
	Def       coursechat.ToolDefinition
	ExecuteFn func(ctx context.Context, args map[string]any) (string, []coursechat.Source)
}

// Definition returns Def.
func (t *Tool) Definition() coursechat.ToolDefinition {
	return t.Def
}

// Execute delegates to ExecuteFn.
func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, []coursechat.Source) {
	return t.ExecuteFn(ctx, args)
}
