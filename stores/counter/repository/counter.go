package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/service/query"
)

type counter struct {
	Name  string `bson:"name"`
	Value int64  `bson:"value"`
}

type counterRepoImpl struct {
	q query.Mongo
}

func NewCounterRepo(q query.Mongo) domain.CounterRepo {
	return &counterRepoImpl{q}
}

func (im *counterRepoImpl) Next(ctx ctx.Ctx, name string) (int64, error) {
	res := counter{}
	if err := im.q.Increment(ctx, domain.TableCounters, bson.M{"name": name}, &res, "value", int64(1)); err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"name": name,
		}).Error("failed to q.Increment")
		return 0, err
	}
	return res.Value, nil
}

func (im *counterRepoImpl) Current(ctx ctx.Ctx, name string) (int64, error) {
	res := counter{}
	if err := im.q.FindOne(ctx, domain.TableCounters, bson.M{"name": name}, &res); err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"name": name,
		}).Error("failed to q.FindOne")
		return 0, err
	}
	return res.Value, nil
}

func (im *counterRepoImpl) Release(ctx ctx.Ctx, name string, value int64) error {
	selector := bson.M{"name": name, "value": value}
	updater := bson.M{"$inc": bson.M{"value": int64(-1)}}
	if err := im.q.CustomPatch(ctx, domain.TableCounters, selector, updater, false); err == query.ErrNotFound {
		ctx.WithFields(log.Fields{
			"name":  name,
			"value": value,
		}).Warn("counter moved on, value not released")
		return nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.CustomPatch")
		return err
	}
	return nil
}

// Indexes the counter table relies on
func Indexes() map[domain.Table][]query.Index {
	return map[domain.Table][]query.Index{
		domain.TableCounters: {
			{Keys: []string{"name"}, Unique: true},
		},
	}
}
