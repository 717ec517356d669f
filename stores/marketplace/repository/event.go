package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/service/query"
)

type eventRepoImpl struct {
	q query.Mongo
}

func NewEventRepo(q query.Mongo) marketplace.EventRepo {
	return &eventRepoImpl{q}
}

func (im *eventRepoImpl) Append(ctx ctx.Ctx, e *marketplace.Event) error {
	ev := *e
	ev.AssetContract = ev.AssetContract.ToLower()
	ev.Seller = ev.Seller.ToLower()
	ev.Buyer = ev.Buyer.ToLower()
	if err := im.q.Insert(ctx, domain.TableMarketEvents, ev); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"event": ev,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *eventRepoImpl) FindAfter(ctx ctx.Ctx, afterSeq int64, limit int) ([]*marketplace.Event, error) {
	res := []*marketplace.Event{}
	selector := bson.M{"seq": bson.M{"$gt": afterSeq}}
	if err := im.q.Search(ctx, domain.TableMarketEvents, 0, limit, "seq", selector, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.Search")
		return nil, err
	}
	return res, nil
}
