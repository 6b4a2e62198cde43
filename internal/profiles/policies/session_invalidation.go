package policies

import (
	"context"

	"lendstock-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DestroyUserSessions removes every session for a user: each session:<sid> key
// plus the user_sessions:<user_id> index set. Called after a role change so the
// permission gate never honors a stale session role.
func DestroyUserSessions(ctx context.Context, rdb *redis.Client, userID string) {
	if userID == "" {
		return
	}
	key := "user_sessions:" + userID
	sessionIDs, err := rdb.SMembers(ctx, key).Result()
	if err != nil || len(sessionIDs) == 0 {
		rdb.Del(ctx, key)
		return
	}
	for _, sid := range sessionIDs {
		rdb.Del(ctx, middleware.SessionRedisPrefix+sid)
	}
	rdb.Del(ctx, key)
}
