package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()
		revoked, err := bl.IsRevoked(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked jti is reported until ttl passes", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()
		require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))

		revoked, err := bl.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("expired entries fall out", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()
		require.NoError(t, bl.Revoke(ctx, "jti-2", 10*time.Millisecond))

		time.Sleep(20 * time.Millisecond)

		revoked, err := bl.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("non-positive ttl is a no-op", func(t *testing.T) {
		bl := NewInMemoryTokenBlacklist()
		require.NoError(t, bl.Revoke(ctx, "jti-3", 0))

		revoked, err := bl.IsRevoked(ctx, "jti-3")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
