package coursechat_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/edudesk/coursechat"
	"github.com/stretchr/testify/assert"
)

func TestSessionStore_Append_FIFOEviction(t *testing.T) {
	t.Parallel()

	s := coursechat.NewSessionStore(2)
	for i := 1; i <= 5; i++ {
		s.Append("sess", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	assert.Equal(t, []coursechat.Exchange{
		{Question: "q4", Answer: "a4"},
		{Question: "q5", Answer: "a5"},
	}, s.Exchanges("sess"))
}

func TestSessionStore_Append_IsolatesSessions(t *testing.T) {
	t.Parallel()

	s := coursechat.NewSessionStore(2)
	s.Append("a", "question for a", "answer for a")
	s.Append("b", "question for b", "answer for b")

	assert.Equal(t, []coursechat.Exchange{{Question: "question for a", Answer: "answer for a"}}, s.Exchanges("a"))
	assert.Equal(t, []coursechat.Exchange{{Question: "question for b", Answer: "answer for b"}}, s.Exchanges("b"))
}

func TestSessionStore_History(t *testing.T) {
	t.Parallel()

	t.Run("unknown session renders empty", func(t *testing.T) {
		t.Parallel()
		s := coursechat.NewSessionStore(2)
		assert.Equal(t, "", s.History("never-seen"))
	})

	t.Run("renders exchanges oldest first", func(t *testing.T) {
		t.Parallel()
		s := coursechat.NewSessionStore(2)
		s.Append("sess", "What is Python?", "A programming language.")
		s.Append("sess", "Who created it?", "Guido van Rossum.")

		assert.Equal(t,
			"User: What is Python?\nAssistant: A programming language.\n"+
				"User: Who created it?\nAssistant: Guido van Rossum.",
			s.History("sess"))
	})
}

func TestSessionStore_Reset(t *testing.T) {
	t.Parallel()

	s := coursechat.NewSessionStore(2)
	s.Append("sess", "q", "a")
	s.Reset("sess")

	assert.Empty(t, s.Exchanges("sess"))
	assert.Equal(t, "", s.History("sess"))

	// Resetting an unknown id is a no-op.
	s.Reset("never-seen")
}

func TestSessionStore_NonPositiveCapacityFallsBackToDefault(t *testing.T) {
	t.Parallel()

	s := coursechat.NewSessionStore(0)
	for i := 1; i <= 4; i++ {
		s.Append("sess", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}
	assert.Len(t, s.Exchanges("sess"), coursechat.DefaultHistoryCapacity)
}

func TestSessionStore_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	s := coursechat.NewSessionStore(10)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append("sess", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Exchanges("sess"), 10)
}
