package domain

import "github.com/x-xyz/marketplace/base/ctx"

// CounterRepo hands out dense ids per name, starting at 1
type CounterRepo interface {
	// Next increments the counter and returns the new value
	Next(c ctx.Ctx, name string) (int64, error)
	// Current returns the last value handed out, 0 when none
	Current(c ctx.Ctx, name string) (int64, error)
	// Release gives back value if it is still the latest one
	Release(c ctx.Ctx, name string, value int64) error
}
