package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/payment"
	"github.com/x-xyz/marketplace/service/query"
)

const zero = "0"

type balanceRepoImpl struct {
	q query.Mongo
}

func NewBalanceRepo(q query.Mongo) payment.Repo {
	return &balanceRepoImpl{q}
}

func (im *balanceRepoImpl) FindOne(ctx ctx.Ctx, account domain.Address) (*payment.Balance, error) {
	res := &payment.Balance{}
	if err := im.q.FindOne(ctx, domain.TableBankBalances, bson.M{"account": account.ToLower()}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"account": account,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return res, nil
}

func (im *balanceRepoImpl) CompareAndSet(ctx ctx.Ctx, account domain.Address, prev, next string) error {
	selector := bson.M{"account": account.ToLower(), "amount": prev}
	err := im.q.Patch(ctx, domain.TableBankBalances, selector, bson.M{"amount": next})
	if err == nil {
		return nil
	} else if err != query.ErrNotFound {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.Patch")
		return err
	} else if prev != zero {
		return payment.ErrBalanceChanged
	}

	// first credit of an account
	b := payment.Balance{Account: account.ToLower(), Amount: next}
	if err := im.q.Insert(ctx, domain.TableBankBalances, b); err == query.ErrDuplicateKey {
		return payment.ErrBalanceChanged
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"balance": b,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

// Indexes the bank tables rely on
func Indexes() map[domain.Table][]query.Index {
	return map[domain.Table][]query.Index{
		domain.TableBankBalances: {
			{Keys: []string{"account"}, Unique: true},
		},
	}
}
