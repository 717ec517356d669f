package usecase

import (
	"sync/atomic"
	"time"

	"github.com/x-xyz/marketplace/base/backoff"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/goroutine"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

type FollowerCfg struct {
	UseCase marketplace.UseCase
	// StateRepo is optional. When set the cursor is stored under Name after
	// every delivered event, and Run starts after the stored one.
	StateRepo domain.TrackerStateRepo
	Name      string
	// After is the last seq already seen, delivery starts at After+1
	After           int64
	BatchSize       int
	PollInterval    time.Duration
	MaxPollInterval time.Duration
}

// Follower tails the marketplace event log
type Follower struct {
	uc        marketplace.UseCase
	states    domain.TrackerStateRepo
	name      string
	last      int64
	batchSize int
	poll      time.Duration
	maxPoll   time.Duration
}

func NewFollower(cfg *FollowerCfg) *Follower {
	f := &Follower{
		uc:        cfg.UseCase,
		states:    cfg.StateRepo,
		name:      cfg.Name,
		last:      cfg.After,
		batchSize: cfg.BatchSize,
		poll:      cfg.PollInterval,
		maxPoll:   cfg.MaxPollInterval,
	}
	if f.batchSize <= 0 {
		f.batchSize = defaultEventLimit
	}
	if f.poll <= 0 {
		f.poll = time.Second
	}
	if f.maxPoll < f.poll {
		f.maxPoll = f.poll
	}
	return f
}

// Last is the seq of the latest delivered event
func (f *Follower) Last() int64 {
	return atomic.LoadInt64(&f.last)
}

// Run delivers events in seq order until c is done, then closes the channel
func (f *Follower) Run(c ctx.Ctx) <-chan *marketplace.Event {
	out := make(chan *marketplace.Event)

	goroutine.RecoverableGo(func() {
		defer close(out)
		bo := backoff.NewExponential(f.poll, f.maxPoll)

		for {
			if err := f.resume(c); err == nil {
				break
			}
			if err := bo.Backoff(c); err != nil {
				return
			}
		}
		bo.Reset()

		for {
			evs, err := f.uc.Events(c, f.Last(), f.batchSize)
			if err != nil {
				c.WithFields(log.Fields{"err": err, "after": f.Last()}).Warn("failed to uc.Events")
			}

			for _, ev := range evs {
				select {
				case out <- ev:
					atomic.StoreInt64(&f.last, ev.Seq)
					f.store(c, ev.Seq)
				case <-c.Done():
					return
				}
			}

			if len(evs) > 0 {
				bo.Reset()
				continue
			}
			if err := bo.Backoff(c); err != nil {
				return
			}
		}
	}, goroutine.WithName("marketplace.follower"))

	return out
}

// resume moves the cursor forward to the stored one
func (f *Follower) resume(c ctx.Ctx) error {
	if f.states == nil {
		return nil
	}
	state, err := f.states.Get(c, f.name)
	if err == domain.ErrNotFound {
		return nil
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "name": f.name}).Warn("failed to states.Get")
		return err
	}
	if state.LastSeq > f.Last() {
		atomic.StoreInt64(&f.last, state.LastSeq)
	}
	c.WithFields(log.Fields{"name": f.name, "after": f.Last()}).Info("follower resumed")
	return nil
}

// store records seq as delivered. A crash right after a send loses at most that event.
func (f *Follower) store(c ctx.Ctx, seq int64) {
	if f.states == nil {
		return
	}
	state := &domain.TrackerState{Name: f.name, LastSeq: seq, UpdatedAt: time.Now()}
	if err := f.states.Store(c, state); err != nil {
		c.WithFields(log.Fields{"err": err, "name": f.name, "seq": seq}).Warn("failed to states.Store")
	}
}
