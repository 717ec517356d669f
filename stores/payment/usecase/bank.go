package usecase

import (
	"math/big"
	"sync"

	"golang.org/x/xerrors"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/payment"
)

type BankCfg struct {
	Repo       payment.Repo
	Transactor domain.Transactor
}

type impl struct {
	// mu serializes read-modify-write of balances within the process
	mu   sync.Mutex
	repo payment.Repo
	tx   domain.Transactor
}

func New(cfg *BankCfg) payment.Bank {
	tx := cfg.Transactor
	if tx == nil {
		tx = domain.NoopTransactor{}
	}
	return &impl{
		repo: cfg.Repo,
		tx:   tx,
	}
}

func (im *impl) balance(c ctx.Ctx, account domain.Address) (*big.Int, error) {
	b, err := im.repo.FindOne(c, account)
	if err == domain.ErrNotFound {
		return new(big.Int), nil
	} else if err != nil {
		return nil, err
	}
	return b.AmountInt(), nil
}

func (im *impl) add(c ctx.Ctx, account domain.Address, delta *big.Int) error {
	prev, err := im.balance(c, account)
	if err != nil {
		return err
	}
	next := new(big.Int).Add(prev, delta)
	if next.Sign() < 0 {
		return payment.ErrInsufficientFunds
	}
	if err := im.repo.CompareAndSet(c, account, prev.String(), next.String()); err != nil {
		c.WithFields(log.Fields{"err": err, "account": account, "prev": prev, "next": next}).Error("failed to repo.CompareAndSet")
		return xerrors.Errorf("update balance of %s: %w", account, err)
	}
	return nil
}

func (im *impl) BalanceOf(c ctx.Ctx, account domain.Address) (*big.Int, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	v, err := im.balance(c, account)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "account": account}).Error("failed to balance")
		return nil, err
	}
	return v, nil
}

func (im *impl) Deposit(c ctx.Ctx, account domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return payment.ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	return im.add(c, account, amount)
}

func (im *impl) Send(c ctx.Ctx, from, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return payment.ErrInvalidAmount
	}
	if amount.Sign() == 0 || from.Equals(to) {
		return im.checkFunds(c, from, amount)
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	return im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.add(c, from, new(big.Int).Neg(amount)); err != nil {
			return err
		}
		return im.add(c, to, amount)
	})
}

// checkFunds covers sends that move nothing
func (im *impl) checkFunds(c ctx.Ctx, from domain.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	b, err := im.BalanceOf(c, from)
	if err != nil {
		return err
	}
	if b.Cmp(amount) < 0 {
		return payment.ErrInsufficientFunds
	}
	return nil
}
