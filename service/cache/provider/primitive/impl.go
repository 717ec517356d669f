package primitive

import (
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive is an in-process cache of sizeMB megabytes
func NewPrimitive(name string, sizeMB int) provider.Provider {
	return &impl{name, freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, ttl, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name}).Error("cache.GetWithExpiration failed")
		return nil, 0, err
	}
	return val, remaining(ttl), nil
}

// remaining converts freecache's absolute expiry, unix seconds, into a duration
func remaining(expireAt uint32) time.Duration {
	if expireAt == 0 {
		return 0
	}
	d := time.Until(time.Unix(int64(expireAt), 0))
	if d < 0 {
		return 0
	}
	return d
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.cache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "cache": im.name}).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}
