package payment

import (
	"errors"
	"math/big"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	// ErrBalanceChanged is returned when a balance moved under a concurrent writer
	ErrBalanceChanged = errors.New("balance changed concurrently")
)

// Payment is the value a caller attaches to a purchase
type Payment struct {
	From   domain.Address
	Amount *big.Int
}

type Balance struct {
	Account domain.Address `json:"account" bson:"account"`
	// Amount is a decimal string of wei
	Amount string `json:"amount" bson:"amount"`
}

func (b *Balance) AmountInt() *big.Int {
	v, ok := new(big.Int).SetString(b.Amount, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

type Repo interface {
	// FindOne returns domain.ErrNotFound for accounts never credited
	FindOne(c ctx.Ctx, account domain.Address) (*Balance, error)
	// CompareAndSet writes next only if the stored amount is still prev,
	// a missing account counts as "0". ErrBalanceChanged otherwise.
	CompareAndSet(c ctx.Ctx, account domain.Address, prev, next string) error
}

// Bank holds account balances and moves value between them
type Bank interface {
	BalanceOf(c ctx.Ctx, account domain.Address) (*big.Int, error)
	// Deposit credits account from outside the bank
	Deposit(c ctx.Ctx, account domain.Address, amount *big.Int) error
	// Send moves amount from -> to. A zero amount is a no-op.
	Send(c ctx.Ctx, from, to domain.Address, amount *big.Int) error
}
