package repository

import (
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
	"github.com/x-xyz/marketplace/domain/keys"
	"github.com/x-xyz/marketplace/service/query"
	"github.com/x-xyz/marketplace/service/redis"
)

type mongoRepo struct {
	q query.Mongo
}

// NewMongoRepo pings the primary of the mongo deployment
func NewMongoRepo(q query.Mongo) hcdomain.HealthCheckRepo {
	return &mongoRepo{q}
}

func (im *mongoRepo) Name() string {
	return "mongo"
}

func (im *mongoRepo) Ping(context ctx.Ctx) error {
	if err := im.q.Ping(context); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

type redisRepo struct {
	redis redis.Service
}

// NewRedisRepo pings redis and checks it accepts writes
func NewRedisRepo(redis redis.Service) hcdomain.HealthCheckRepo {
	return &redisRepo{redis}
}

func (im *redisRepo) Name() string {
	return "redis:" + im.redis.Name()
}

func (im *redisRepo) Ping(context ctx.Ctx) error {
	if err := im.redis.Ping(context); err != nil {
		context.WithField("err", err).Error("ping redis error")
		return err
	}
	if err := im.redis.Set(context, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
		context.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}
