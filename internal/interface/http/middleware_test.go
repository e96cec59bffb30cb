package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/sugarpoints/internal/infra/config"
)

func TestIPRateLimiter_RefillsOverTime(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, _ := limiter.allow("10.0.0.1")
		require.True(t, ok)
	}
	ok, wait := limiter.allow("10.0.0.1")
	require.False(t, ok)
	require.Equal(t, time.Second, wait)

	ok, _ = limiter.allow("10.0.0.2")
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, _ = limiter.allow("10.0.0.1")
	require.True(t, ok)
}

func TestIPRateLimiter_ForgetsIdleVisitors(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1})
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.allow("10.0.0.1")
	require.True(t, ok)
	now = now.Add(10 * time.Minute)
	_, _ = limiter.allow("10.0.0.2")
	require.Len(t, limiter.visitors, 1)
}
