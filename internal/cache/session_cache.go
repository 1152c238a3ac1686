package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_console/internal/utils"
)

// DefaultSessionKey is the Redis key holding the admin bearer token.
const DefaultSessionKey = "session:admin:token"

// SessionCache keeps the admin bearer token in Redis so that every console
// process talking to the product service shares one session.
// It implements catalog.TokenSource.
type SessionCache struct {
	redis *RedisClient
	key   string
	now   func() time.Time
}

// NewSessionCache creates a SessionCache storing the token under key.
func NewSessionCache(redis *RedisClient, key string) *SessionCache {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionCache{
		redis: redis,
		key:   key,
		now:   time.Now,
	}
}

// Token returns the stored token. A missing token, or a JWT whose exp claim
// has passed, yields an empty token and no error.
func (c *SessionCache) Token(ctx context.Context) (string, error) {
	token, err := c.redis.Get(ctx, c.key)
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}

	if exp, ok := expiresAt(token); ok && !exp.After(c.now()) {
		log.Info().Time("expired_at", exp).Msg("Stored session token has expired, sending requests without credentials")
		return "", nil
	}
	return token, nil
}

// Store saves token. When token is a JWT with an exp claim the entry expires
// with it; otherwise ttl applies (0 keeps it until cleared).
func (c *SessionCache) Store(ctx context.Context, token string, ttl time.Duration) error {
	if exp, ok := expiresAt(token); ok {
		ttl = exp.Sub(c.now())
		if ttl <= 0 {
			return utils.ErrSessionExpired
		}
	}
	if err := c.redis.Set(ctx, c.key, token, ttl); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

// Clear removes the stored token.
func (c *SessionCache) Clear(ctx context.Context) error {
	return c.redis.Delete(ctx, c.key)
}

// expiresAt reads the exp claim of a JWT without verifying its signature;
// the product service does the verification. Opaque tokens report false.
func expiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
