package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Passwords
// ==========================

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, CheckPassword(hash, "hunter22"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("not-a-hash", "hunter22"), ErrInvalidCredentials)
}

func TestHashPassword_CostFallback(t *testing.T) {
	hash, err := HashPassword("hunter22", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

// ==========================
// Sessions
// ==========================

func setupStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSessionStore(rdb, time.Hour), mr
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	session, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, time.Hour, session.ExpiresAt.Sub(session.CreatedAt))
	assert.Equal(t, time.Hour, mr.TTL("session:"+session.Token))

	userID, err := store.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, store.Revoke(ctx, session.Token))
	_, err = store.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	session, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionStore_Authenticate_Rejects(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = store.Authenticate(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = store.Authenticate(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionStore_RedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewSessionStore(rdb, time.Hour)
	token := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

	mock.ExpectGet("session:" + token).SetErr(errors.New("connection reset"))

	_, err := store.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}
