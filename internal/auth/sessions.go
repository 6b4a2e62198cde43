package auth

import (
	"context"

	"lendstock-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// RedisSessionIndex tracks which sessions belong to which user so all of a
// user's sessions can be found (and invalidated) later.
type RedisSessionIndex struct {
	Rdb *redis.Client
}

func (r *RedisSessionIndex) TrackSession(ctx context.Context, userID, sessionID string) error {
	return r.Rdb.SAdd(ctx, userSessionsPrefix+userID, sessionID).Err()
}

func (r *RedisSessionIndex) DropSession(ctx context.Context, userID, sessionID string) error {
	return r.Rdb.SRem(ctx, userSessionsPrefix+userID, sessionID).Err()
}

func (r *RedisSessionIndex) DeleteSessionKey(ctx context.Context, sessionID string) error {
	return r.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
}
