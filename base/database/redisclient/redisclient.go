package redisclient

import (
	"math/rand"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/marketplace/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond

	defaultMaxIdle   = 200
	defaultMaxActive = 1024
	dialRetries      = 3
)

// Config of one redis endpoint
type Config struct {
	URI      string
	Password string
	// PoolMultiplier times NumCPU is the max active connections, 0 keeps the defaults
	PoolMultiplier float64
	// Retry dials up to dialRetries more times with jitter
	Retry bool
}

// MustConnect connects to one redis uri or panics
func MustConnect(cfg Config) *redis.Pool {
	p, err := Connect(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": cfg.URI, "err": err}).Panic("fail to dial Redis")
	}
	return p
}

func newPool(cfg Config) *redis.Pool {
	maxIdle := defaultMaxIdle
	maxActive := defaultMaxActive
	if cfg.PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		// allowing 25% idle connection
		maxIdle = int(cpu * cfg.PoolMultiplier / 4)
		maxActive = int(cpu * cfg.PoolMultiplier)
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}
	return &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.URI, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			// skip connections recycled within the last second
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// Connect builds a pool and makes sure one connection can be borrowed
func Connect(cfg Config) (*redis.Pool, error) {
	p := newPool(cfg)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	var err error
	for attempt := 0; attempt <= dialRetries; attempt++ {
		if attempt > 0 {
			if !cfg.Retry {
				break
			}
			time.Sleep(time.Second + time.Duration(r.Intn(1000))*time.Millisecond)
		}
		if err = ping(p); err == nil {
			break
		}
		log.Log().WithFields(log.Fields{
			"redisURI": cfg.URI,
			"err":      err,
			"attempt":  attempt,
		}).Error("fail to dial Redis")
	}
	if err != nil {
		p.Close()
		return nil, err
	}

	log.Log().WithField("redisURI", cfg.URI).Info("redis connected")
	return p, nil
}

func ping(p *redis.Pool) error {
	c, err := p.Dial()
	if err != nil {
		return err
	}
	defer c.Close()
	return p.TestOnBorrow(c, time.Time{})
}
