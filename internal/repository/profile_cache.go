// internal/repository/profile_cache.go
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/models"
)

const profileKeyPrefix = "user:profile:"

// ProfileLoader is the source of truth behind the cache.
type ProfileLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ProfileCache is a cache-aside layer over user profiles. Redis failures
// degrade to direct loads; scores are never cached.
type ProfileCache struct {
	redis  redis.Cmdable
	users  ProfileLoader
	ttl    time.Duration
	logger logger.Logger
}

func NewProfileCache(rdb redis.Cmdable, users ProfileLoader, ttl time.Duration, log logger.Logger) *ProfileCache {
	return &ProfileCache{
		redis:  rdb,
		users:  users,
		ttl:    ttl,
		logger: logger.Component(log, "profile-cache"),
	}
}

func ProfileKey(userID string) string {
	return profileKeyPrefix + userID
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (*models.User, error) {
	key := ProfileKey(userID)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var u models.User
		if err := json.Unmarshal([]byte(val), &u); err == nil {
			return &u, nil
		}
		c.logger.Warn("discarding corrupt cached profile", map[string]interface{}{"userId": userID})
	case err != redis.Nil:
		c.logger.Warn("profile cache read failed", map[string]interface{}{"userId": userID, "error": err})
	}

	u, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("profile cache write failed", map[string]interface{}{"userId": userID, "error": err})
		}
	}
	return u, nil
}

// Invalidate drops the cached profile after an update.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if err := c.redis.Del(ctx, ProfileKey(userID)).Err(); err != nil {
		c.logger.Warn("profile cache invalidation failed", map[string]interface{}{"userId": userID, "error": err})
	}
}
