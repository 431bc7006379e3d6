package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour, "newsfeed")

	token, claims, err := m.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, claims.ID)

	parsed, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Equal(t, "newsfeed", parsed.Issuer)
}

func TestManager_ParseRejects(t *testing.T) {
	m := NewManager("secret", time.Hour, "newsfeed")
	token, _, err := m.Generate(1)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("other", time.Hour, "newsfeed")
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewManager("secret", time.Minute, "newsfeed")
		expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
		old, _, err := expired.Generate(1)
		require.NoError(t, err)
		_, err = m.Parse(old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRedisRevoker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedisRevoker(client)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-2", 0))
	assert.False(t, mr.Exists("auth:revoked:jti-2"))
}

func TestNopRevoker(t *testing.T) {
	var r Revoker = NopRevoker{}
	require.NoError(t, r.Revoke(context.Background(), "x", time.Minute))
	revoked, err := r.IsRevoked(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, revoked)
}
