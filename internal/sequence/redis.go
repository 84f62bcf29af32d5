package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "seq:"

var floorScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current < tonumber(ARGV[1]) then
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// RedisClient is the subset of go-redis used by the Redis allocator.
type RedisClient interface {
	redis.Scripter
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// Redis is an Allocator over INCR.
type Redis struct {
	client RedisClient
}

func NewRedis(client RedisClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Next(ctx context.Context, name string) (int64, error) {
	n, err := r.client.Incr(ctx, redisKeyPrefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}
	return n, nil
}

func (r *Redis) Floor(ctx context.Context, name string, min int64) error {
	if err := floorScript.Run(ctx, r.client, []string{redisKeyPrefix + name}, min).Err(); err != nil {
		return fmt.Errorf("floor counter %s: %w", name, err)
	}
	return nil
}
