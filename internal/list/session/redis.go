package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/lista-compras/server/internal/core/error"
	"github.com/lista-compras/server/internal/list/model"
	logx "github.com/lista-compras/server/pkg/logger"
)

// RedisSessionRepository resolves the current user from a session token held
// in Redis. A missing key means no session; that is not an error.
type RedisSessionRepository struct {
	rdb   redis.Cmdable
	token string
	ttl   time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, token string, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, token: token, ttl: ttl}
}

func (r *RedisSessionRepository) sessionKey() string {
	return fmt.Sprintf("session:%s", r.token)
}

func (r *RedisSessionRepository) CurrentUser(ctx context.Context) (*model.User, error) {
	key := r.sessionKey()

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session from redis")
		return nil, errx.WrapRedis(err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal session user")
		return nil, fmt.Errorf("unmarshal session user: %w", err)
	}

	// extend TTL on touch
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return nil, errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on session key")
		}
	}
	return &user, nil
}

// SaveUser writes the session record, mainly for local seeding and tests.
func (r *RedisSessionRepository) SaveUser(ctx context.Context, user model.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	if err := r.rdb.Set(ctx, r.sessionKey(), b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", r.sessionKey()).Msg("failed to store session in redis")
		return errx.WrapRedis(err)
	}
	return nil
}

// ClearSession drops the session record.
func (r *RedisSessionRepository) ClearSession(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.sessionKey()).Err(); err != nil {
		logx.Error().Err(err).Str("key", r.sessionKey()).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionResolver = (*RedisSessionRepository)(nil)
