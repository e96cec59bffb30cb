package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTokenUsage(t *testing.T) {
	usage := NewTokenUsage(12, 30)
	require.Equal(t, 42, usage.TotalTokens)
	require.False(t, usage.IsZero())
	require.True(t, TokenUsage{}.IsZero())
}

func TestTokenCounter_EmptyText(t *testing.T) {
	require.Zero(t, NewTokenCounter("gpt-4o-mini").Count(""))
}
