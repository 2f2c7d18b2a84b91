package report

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lock lets one instance claim a day's report. Release gives the claim back
// when a run fails before anything was sent.
type Lock interface {
	Acquire(ctx context.Context, day string) (bool, error)
	Release(ctx context.Context, day string) error
}

// NoLock always grants the claim; used for a single instance.
type NoLock struct{}

func (NoLock) Acquire(context.Context, string) (bool, error) { return true, nil }
func (NoLock) Release(context.Context, string) error         { return nil }

const lockTTL = 26 * time.Hour

// releaseScript deletes the key only while it still holds our owner value.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLock claims a day with SET NX so replicas behind the same Redis send once.
type RedisLock struct {
	rdb   *redis.Client
	owner string
}

func NewRedisLock(rdb *redis.Client) *RedisLock {
	host, _ := os.Hostname()
	return &RedisLock{rdb: rdb, owner: host + "/" + uuid.NewString()}
}

func lockKey(day string) string { return "canteen:report:" + day }

func (l *RedisLock) Acquire(ctx context.Context, day string) (bool, error) {
	return l.rdb.SetNX(ctx, lockKey(day), l.owner, lockTTL).Result()
}

func (l *RedisLock) Release(ctx context.Context, day string) error {
	return releaseScript.Run(ctx, l.rdb, []string{lockKey(day)}, l.owner).Err()
}

// NewRedis parses a redis:// URL and checks the connection.
func NewRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
