package quizstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/sugarpoints/internal/domain/profile"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// MemoryStore keeps quiz sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	session   sugarpoints.QuizSession
	expiresAt time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, userID, sessionID string) (*sugarpoints.QuizSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(userID, sessionID)
	entry, ok := s.sessions[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.sessions, key)
		return nil, false, nil
	}
	return cloneSession(entry.session), true, nil
}

func (s *MemoryStore) Save(_ context.Context, session *sugarpoints.QuizSession, ttl time.Duration) error {
	entry := memoryEntry{session: *cloneSession(*session)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.sessions[sessionKey(session.UserID, session.ID)] = entry
	s.mu.Unlock()
	return nil
}

func cloneSession(session sugarpoints.QuizSession) *sugarpoints.QuizSession {
	out := session
	out.Answers = make(map[int]sugarpoints.Answer, len(session.Answers))
	for id, a := range session.Answers {
		out.Answers[id] = a
	}
	if session.Result != nil {
		result := *session.Result
		out.Result = &result
	}
	if session.SubmittedAt != nil {
		at := *session.SubmittedAt
		out.SubmittedAt = &at
	}
	return &out
}

func sessionKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}

var _ profile.QuizSessionStore = (*MemoryStore)(nil)
