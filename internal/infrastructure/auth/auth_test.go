package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/auth"
)

func signToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token := signToken(t, jwt.RegisteredClaims{
		ID:        "jti-1",
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	info, err := auth.InspectToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jti-1", info.Key)
	assert.Equal(t, "42", info.Subject)
	assert.True(t, exp.Equal(info.ExpiresAt))
}

func TestInspectToken_ExpiredTokenStillInspectable(t *testing.T) {
	token := signToken(t, jwt.RegisteredClaims{
		ID:        "old",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	info, err := auth.InspectToken(token)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), info.RemainingTTL(time.Now(), time.Hour))
}

func TestInspectToken_WithoutJTIUsesHash(t *testing.T) {
	a, err := auth.InspectToken(signToken(t, jwt.RegisteredClaims{Subject: "1"}))
	require.NoError(t, err)
	b, err := auth.InspectToken(signToken(t, jwt.RegisteredClaims{Subject: "2"}))
	require.NoError(t, err)

	assert.Contains(t, a.Key, "sha256:")
	assert.NotEqual(t, a.Key, b.Key)
	assert.Equal(t, 5*time.Minute, a.RemainingTTL(time.Now(), 5*time.Minute))
}

func TestInspectToken_Malformed(t *testing.T) {
	_, err := auth.InspectToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := auth.NewInMemoryTokenBlacklist()

	require.NoError(t, bl.AddToBlacklist(ctx, "k1", time.Hour))
	require.NoError(t, bl.AddToBlacklist(ctx, "k2", time.Millisecond))

	ok, err := bl.IsBlacklisted(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(5 * time.Millisecond)
	ok, err = bl.IsBlacklisted(ctx, "k2")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are dropped")

	ok, err = bl.IsBlacklisted(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTokenBlacklist_WrapsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()
	bl := auth.NewRedisTokenBlacklist(client)

	err := bl.AddToBlacklist(context.Background(), "k", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add token to blacklist")

	_, err = bl.IsBlacklisted(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check token blacklist")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := auth.NewRedisClient(ctx, auth.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestRevocations(t *testing.T) {
	ctx := context.Background()
	rev := auth.NewRevocations(auth.NewInMemoryTokenBlacklist())

	live := signToken(t, jwt.RegisteredClaims{ID: "live", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	other := signToken(t, jwt.RegisteredClaims{ID: "other", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})

	revoked, err := rev.IsRevoked(ctx, live)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, rev.Revoke(ctx, live))

	revoked, err = rev.IsRevoked(ctx, live)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = rev.IsRevoked(ctx, other)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocations_OpaqueToken(t *testing.T) {
	ctx := context.Background()
	rev := auth.NewRevocations(auth.NewInMemoryTokenBlacklist())

	require.NoError(t, rev.Revoke(ctx, "opaque-session-token"))

	revoked, err := rev.IsRevoked(ctx, "opaque-session-token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocations_ExpiredTokenIsNotStored(t *testing.T) {
	ctx := context.Background()
	rev := auth.NewRevocations(auth.NewInMemoryTokenBlacklist())
	expired := signToken(t, jwt.RegisteredClaims{ID: "gone", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))})

	require.NoError(t, rev.Revoke(ctx, expired))

	revoked, err := rev.IsRevoked(ctx, expired)
	require.NoError(t, err)
	assert.False(t, revoked)
}
