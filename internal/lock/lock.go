// Package lock 提供按 key 互斥的锁，用于串行化同一日期下的班次创建
package lock

import (
	"context"
	"errors"
)

var ErrLockTimeout = errors.New("lock: timed out waiting for lock")

// Locker 获取 key 对应的锁，返回的 unlock 用于释放锁，可以重复调用
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
