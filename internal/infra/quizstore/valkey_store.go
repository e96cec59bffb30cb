package quizstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/sugarpoints/internal/domain/profile"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// ValkeyStore persists quiz sessions as JSON documents with a TTL.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "sugarpoints"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, userID, sessionID string) (*sugarpoints.QuizSession, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.sessionKey(userID, sessionID)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var session sugarpoints.QuizSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, false, err
	}
	if session.Answers == nil {
		session.Answers = make(map[int]sugarpoints.Answer, sugarpoints.QuestionCount)
	}
	return &session, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, session *sugarpoints.QuizSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.sessionKey(session.UserID, session.ID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) sessionKey(userID, sessionID string) string {
	return fmt.Sprintf("%s:quiz:%s:%s", s.prefix, userID, sessionID)
}

var _ profile.QuizSessionStore = (*ValkeyStore)(nil)
