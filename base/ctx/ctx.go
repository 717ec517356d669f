package ctx

import (
	"context"
	"time"

	log "github.com/x-xyz/marketplace/base/log"
)

// Ctx is the request scoped context passed through every layer. It carries the
// logger so that fields attached upstream show up in downstream logs.
type Ctx struct {
	context.Context
	log.Logger
}

func Background() Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  log.Log(),
	}
}

func Todo() Ctx {
	return Ctx{
		Context: context.TODO(),
		Logger:  log.Log(),
	}
}

// From wraps a std context, e.g. a mongo session context, keeping the parent logger
func From(parent Ctx, c context.Context) Ctx {
	return Ctx{
		Context: c,
		Logger:  parent.Logger,
	}
}

func WithValue(parent Ctx, key string, val interface{}) Ctx {
	return Ctx{
		Context: context.WithValue(parent.Context, ctxKey(key), val),
		Logger:  parent.Logger.WithField(key, val),
	}
}

func WithValues(parent Ctx, kvs map[string]interface{}) Ctx {
	c := parent
	for k, v := range kvs {
		c = WithValue(c, k, v)
	}
	return c
}

// Value looks up a value stored with WithValue
func Value(c Ctx, key string) interface{} {
	return c.Context.Value(ctxKey(key))
}

func WithCancel(parent Ctx) (Ctx, context.CancelFunc) {
	c, cancel := context.WithCancel(parent.Context)
	return Ctx{
		Context: c,
		Logger:  parent.Logger,
	}, cancel
}

func WithTimeout(parent Ctx, timeout time.Duration) (Ctx, context.CancelFunc) {
	c, cancel := context.WithTimeout(parent.Context, timeout)
	return Ctx{
		Context: c,
		Logger:  parent.Logger,
	}, cancel
}

type ctxKey string
