package coursechat

import (
	"strings"
	"sync"
)

// Exchange is one resolved question/answer pair stored in session history.
type Exchange struct {
	Question string
	Answer   string
}

// DefaultHistoryCapacity bounds per-session history when no capacity is
// configured.
const DefaultHistoryCapacity = 2

// SessionStore holds bounded per-session exchange history in process memory.
// Sessions are created lazily on first append; an absent session simply has
// empty history. Appends for the same session are serialized to preserve
// FIFO eviction; reads may race with appends and see a snapshot.
type SessionStore struct {
	capacity int

	mu       sync.Mutex
	sessions map[string][]Exchange
}

// NewSessionStore creates a store that keeps at most capacity exchanges per
// session. Non-positive capacity falls back to DefaultHistoryCapacity.
func NewSessionStore(capacity int) *SessionStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &SessionStore{
		capacity: capacity,
		sessions: make(map[string][]Exchange),
	}
}

// Append records a fully-resolved exchange, evicting the oldest once the
// session exceeds capacity.
func (s *SessionStore) Append(sessionID, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exchanges := append(s.sessions[sessionID], Exchange{Question: question, Answer: answer})
	if len(exchanges) > s.capacity {
		exchanges = exchanges[len(exchanges)-s.capacity:]
	}
	s.sessions[sessionID] = exchanges
}

// History renders the session's exchange list, oldest first, as a single
// text block usable as LLM context. Unknown session ids render as empty.
func (s *SessionStore) History(sessionID string) string {
	s.mu.Lock()
	exchanges := s.sessions[sessionID]
	s.mu.Unlock()

	if len(exchanges) == 0 {
		return ""
	}
	var b strings.Builder
	for i, ex := range exchanges {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("User: ")
		b.WriteString(ex.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(ex.Answer)
	}
	return b.String()
}

// Exchanges returns a copy of the session's exchange list, oldest first.
func (s *SessionStore) Exchanges(sessionID string) []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	exchanges := s.sessions[sessionID]
	out := make([]Exchange, len(exchanges))
	copy(out, exchanges)
	return out
}

// Reset clears the session's history. Resetting an unknown id is a no-op.
func (s *SessionStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
