package domain

import "github.com/x-xyz/marketplace/base/ctx"

// Transactor runs fn so that its storage writes commit together or not at all.
// Repositories must be called with the ctx handed to fn.
type Transactor interface {
	RunWithTransaction(c ctx.Ctx, fn func(ctx.Ctx) error) error
}

// NoopTransactor runs fn directly, for backends without transactions
type NoopTransactor struct{}

func (NoopTransactor) RunWithTransaction(c ctx.Ctx, fn func(ctx.Ctx) error) error {
	return fn(c)
}
