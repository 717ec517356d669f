package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/marketplace/base/ctx"
)

// Forever makes Set skip the expiry
const Forever time.Duration = -1

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = redis.ErrNil
	// ErrNoTTL is returned by TTL when the key has no expiry
	ErrNoTTL = errors.New("key has no ttl")
)

// Service is the subset of redis commands used by the cache and health check
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, keys ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	// TTL returns the remaining seconds
	TTL(context ctx.Ctx, key string) (int, error)
	Ping(context ctx.Ctx) error
	Name() string
}
