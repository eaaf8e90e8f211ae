package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/models"
)

type stubLoader struct {
	user  *models.User
	err   error
	calls int
}

func (s *stubLoader) GetByID(_ context.Context, _ string) (*models.User, error) {
	s.calls++
	return s.user, s.err
}

func setupCache(t *testing.T, loader ProfileLoader) (*ProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewProfileCache(rdb, loader, time.Minute, logger.NewTestLogger(t)), mr
}

func TestProfileCache_MissThenHit(t *testing.T) {
	loader := &stubLoader{user: &models.User{ID: "u-1", Name: "Dana", Budget: models.Budget{Min: 1, Max: 2}}}
	cache, mr := setupCache(t, loader)
	ctx := context.Background()

	first, err := cache.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Dana", first.Name)
	assert.True(t, mr.Exists("user:profile:u-1"))
	assert.Equal(t, time.Minute, mr.TTL("user:profile:u-1"))

	second, err := cache.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, loader.calls)
}

func TestProfileCache_Invalidate(t *testing.T) {
	loader := &stubLoader{user: &models.User{ID: "u-1", Name: "Dana"}}
	cache, mr := setupCache(t, loader)
	ctx := context.Background()

	_, err := cache.Get(ctx, "u-1")
	require.NoError(t, err)

	cache.Invalidate(ctx, "u-1")
	assert.False(t, mr.Exists("user:profile:u-1"))

	_, err = cache.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestProfileCache_CorruptEntryFallsBack(t *testing.T) {
	loader := &stubLoader{user: &models.User{ID: "u-1", Name: "Dana"}}
	cache, mr := setupCache(t, loader)
	require.NoError(t, mr.Set("user:profile:u-1", "{not json"))

	u, err := cache.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Dana", u.Name)
	assert.Equal(t, 1, loader.calls)

	raw, _ := mr.Get("user:profile:u-1")
	var cached models.User
	assert.NoError(t, json.Unmarshal([]byte(raw), &cached))
}

func TestProfileCache_LoaderError(t *testing.T) {
	loader := &stubLoader{err: ErrNotFound}
	cache, mr := setupCache(t, loader)

	_, err := cache.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("user:profile:ghost"))
}

func TestProfileCache_RedisDown(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	loader := &stubLoader{user: &models.User{ID: "u-1", Name: "Dana"}}
	cache := NewProfileCache(rdb, loader, time.Minute, logger.NewNoOpLogger())

	mock.ExpectGet("user:profile:u-1").SetErr(errors.New("connection refused"))

	u, err := cache.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Dana", u.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
