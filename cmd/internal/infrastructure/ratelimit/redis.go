package ratelimit

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// Limiter decides whether one more hit for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RedisLimiter is a fixed-window counter kept in Redis. Redis failures
// let the request through.
type RedisLimiter struct {
	client redis.Scripter
	limit  int
	window time.Duration
	prefix string
	script *redis.Script
}

func NewRedisLimiter(client redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}

	redisKey := key
	if l.prefix != "" {
		redisKey = l.prefix + ":" + key
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{redisKey}, ttl, l.limit).Int64()
	if err != nil {
		log.Warnf("rate limiter unavailable, allowing %s: %v", redisKey, err)
		return true
	}
	return allowed == 1
}

// NoopLimiter allows everything. Used when Redis is not configured.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) bool { return true }
