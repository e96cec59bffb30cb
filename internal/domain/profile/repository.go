package profile

import (
	"context"
	"time"

	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// Repository persists user profiles.
type Repository interface {
	Get(ctx context.Context, userID string) (Profile, bool, error)
	Save(ctx context.Context, profile Profile) error
}

// QuizSessionStore keeps in-flight quiz sessions.
type QuizSessionStore interface {
	Get(ctx context.Context, userID, sessionID string) (*sugarpoints.QuizSession, bool, error)
	Save(ctx context.Context, session *sugarpoints.QuizSession, ttl time.Duration) error
}
