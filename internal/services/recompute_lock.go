package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/fitrank-backend/internal/platform/logger"
)

// RecomputeLock serializes recomputes per (user, category) pair so two
// triggers firing together (a new approved entry plus onboarding
// completion) cannot race a read-modify-write on the same rating row.
type RecomputeLock interface {
	Acquire(ctx context.Context, userID, categoryID uuid.UUID) (release func(), err error)
}

type redisRecomputeLock struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisRecomputeLock connects to the given redis address (resolved
// by the caller at the config boundary). Callers that get an error
// should run without a lock; the data layer's read-modify-write
// remains the serialization point.
func NewRedisRecomputeLock(log *logger.Logger, addr string) (RecomputeLock, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisRecomputeLock{
		log: log.With("service", "RecomputeLock"),
		rdb: rdb,
		ttl: 30 * time.Second,
	}, nil
}

func (l *redisRecomputeLock) Acquire(ctx context.Context, userID, categoryID uuid.UUID) (func(), error) {
	key := fmt.Sprintf("fitrank:recompute:%s:%s", userID, categoryID)
	token := uuid.New().String()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: already held", key)
	}
	release := func() {
		// Only delete our own token; an expired lock may have been
		// re-acquired by another recompute.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		if err := l.rdb.Eval(context.Background(), script, []string{key}, token).Err(); err != nil {
			l.log.Warn("failed to release recompute lock", "key", key, "error", err)
		}
	}
	return release, nil
}
