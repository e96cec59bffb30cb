package profilerepo

import (
	"context"
	"sync"

	"github.com/yanqian/sugarpoints/internal/domain/profile"
)

// MemoryRepository keeps profiles in process memory for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]profile.Profile)}
}

// Get returns the stored profile for the user.
func (r *MemoryRepository) Get(_ context.Context, userID string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return profile.Profile{}, false, nil
	}
	return cloneProfile(p), true, nil
}

// Save upserts the profile.
func (r *MemoryRepository) Save(_ context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = cloneProfile(p)
	return nil
}

func cloneProfile(p profile.Profile) profile.Profile {
	out := p
	if p.QuizResult != nil {
		result := *p.QuizResult
		out.QuizResult = &result
	}
	if p.CustomTarget != nil {
		target := *p.CustomTarget
		out.CustomTarget = &target
	}
	return out
}

var _ profile.Repository = (*MemoryRepository)(nil)
