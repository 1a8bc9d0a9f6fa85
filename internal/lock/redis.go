package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// 只有持有者才能释放锁，防止锁过期后误删其他实例的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client        redis.UniversalClient
	prefix        string
	expiration    time.Duration
	retryInterval time.Duration
	waitTimeout   time.Duration
}

type RedisLockerOptions struct {
	Prefix        string
	Expiration    time.Duration
	RetryInterval time.Duration
	WaitTimeout   time.Duration
}

func NewRedisLocker(client redis.UniversalClient, opts RedisLockerOptions) *RedisLocker {
	if opts.Prefix == "" {
		opts.Prefix = "planner:lock:"
	}
	if opts.Expiration <= 0 {
		opts.Expiration = 30 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 50 * time.Millisecond
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 10 * time.Second
	}

	return &RedisLocker{
		client:        client,
		prefix:        opts.Prefix,
		expiration:    opts.Expiration,
		retryInterval: opts.RetryInterval,
		waitTimeout:   opts.WaitTimeout,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	redisKey := l.prefix + key
	deadline := time.Now().Add(l.waitTimeout)

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.expiration).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// 即使调用方的 ctx 已经取消也要尽力释放锁
			releaseCtx, cancel := context.WithTimeout(context.Background(), l.retryInterval+time.Second)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				slog.Error("释放锁失败", "key", redisKey, "error", err)
			}
		})
	}, nil
}

func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
