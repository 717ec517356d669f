package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/service/query"
)

type trackerStateRepoImpl struct {
	q query.Mongo
}

func NewTrackerStateRepo(q query.Mongo) domain.TrackerStateRepo {
	return &trackerStateRepoImpl{q}
}

func (im *trackerStateRepoImpl) Get(ctx ctx.Ctx, name string) (*domain.TrackerState, error) {
	res := &domain.TrackerState{}
	if err := im.q.FindOne(ctx, domain.TableTrackerStates, bson.M{"name": name}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":  err,
			"name": name,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return res, nil
}

func (im *trackerStateRepoImpl) Store(ctx ctx.Ctx, state *domain.TrackerState) error {
	if err := im.q.Upsert(ctx, domain.TableTrackerStates, bson.M{"name": state.Name}, state); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"state": state,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}

// Indexes the tracker state table relies on
func Indexes() map[domain.Table][]query.Index {
	return map[domain.Table][]query.Index{
		domain.TableTrackerStates: {
			{Keys: []string{"name"}, Unique: true},
		},
	}
}
