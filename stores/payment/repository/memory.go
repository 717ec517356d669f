package repository

import (
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/payment"
)

type memoryBalanceRepo struct {
	mu       sync.Mutex
	balances map[domain.Address]string
}

// NewMemoryBalanceRepo keeps balances in process memory
func NewMemoryBalanceRepo() payment.Repo {
	return &memoryBalanceRepo{balances: map[domain.Address]string{}}
}

func (im *memoryBalanceRepo) FindOne(_ ctx.Ctx, account domain.Address) (*payment.Balance, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	amount, ok := im.balances[account.ToLower()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &payment.Balance{Account: account.ToLower(), Amount: amount}, nil
}

func (im *memoryBalanceRepo) CompareAndSet(_ ctx.Ctx, account domain.Address, prev, next string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	cur, ok := im.balances[account.ToLower()]
	if !ok {
		cur = zero
	}
	if cur != prev {
		return payment.ErrBalanceChanged
	}
	im.balances[account.ToLower()] = next
	return nil
}
