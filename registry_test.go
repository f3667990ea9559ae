package coursechat_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/edudesk/coursechat"
	"github.com/edudesk/coursechat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedTool(name string) *mock.Tool {
	return &mock.Tool{
		Def: coursechat.ToolDefinition{
			Name:        name,
			Description: "a test tool",
			InputSchema: json.RawMessage(`{"type":"object"}`),
		},
		ExecuteFn: func(_ context.Context, _ map[string]any) (string, []coursechat.Source) {
			return name + " output", nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("registers distinct names", func(t *testing.T) {
		t.Parallel()
		r := coursechat.NewRegistry()
		require.NoError(t, r.Register(namedTool("search_course_content")))
		require.NoError(t, r.Register(namedTool("get_course_outline")))
		assert.Len(t, r.Definitions(), 2)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		t.Parallel()
		r := coursechat.NewRegistry()
		require.NoError(t, r.Register(namedTool("search_course_content")))
		err := r.Register(namedTool("search_course_content"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, coursechat.ErrDuplicateTool))
		assert.Contains(t, err.Error(), "search_course_content")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		r := coursechat.NewRegistry()
		err := r.Register(namedTool(""))
		require.Error(t, err)
		assert.True(t, errors.Is(err, coursechat.ErrValidation))
	})
}

func TestRegistry_Definitions_RegistrationOrder(t *testing.T) {
	t.Parallel()

	r := coursechat.NewRegistry()
	names := []string{"charlie", "alpha", "bravo"}
	for _, name := range names {
		require.NoError(t, r.Register(namedTool(name)))
	}

	defs := r.Definitions()
	require.Len(t, defs, 3)
	for i, def := range defs {
		assert.Equal(t, names[i], def.Name)
	}
}

func TestRegistry_Execute(t *testing.T) {
	t.Parallel()

	t.Run("dispatches by name with arguments", func(t *testing.T) {
		t.Parallel()

		var gotArgs map[string]any
		tool := namedTool("search_course_content")
		tool.ExecuteFn = func(_ context.Context, args map[string]any) (string, []coursechat.Source) {
			gotArgs = args
			return "found it", []coursechat.Source{{Label: "Course X - Lesson 1"}}
		}

		r := coursechat.NewRegistry()
		require.NoError(t, r.Register(tool))

		text, sources, err := r.Execute(context.Background(), "search_course_content", map[string]any{"query": "variables"})
		require.NoError(t, err)
		assert.Equal(t, "found it", text)
		assert.Equal(t, []coursechat.Source{{Label: "Course X - Lesson 1"}}, sources)
		assert.Equal(t, map[string]any{"query": "variables"}, gotArgs)
	})

	t.Run("unknown name returns ErrToolNotFound", func(t *testing.T) {
		t.Parallel()

		r := coursechat.NewRegistry()
		_, _, err := r.Execute(context.Background(), "nonexistent", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, coursechat.ErrToolNotFound))
		assert.Contains(t, err.Error(), "nonexistent")
	})
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	t.Parallel()

	r := coursechat.NewRegistry()
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Register(namedTool(fmt.Sprintf("tool-%d", i))))
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = r.Definitions()
				_, _, _ = r.Execute(context.Background(), "tool-0", nil)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
