package backoff

import (
	"context"
	"math"
	"time"
)

// Strategy computes the wait before the next attempt
type Strategy interface {
	Duration(attempt int, start time.Duration) time.Duration
}

// Backoff sleeps for growing durations between idle attempts, capped at limit.
// Not safe for concurrent use.
type Backoff struct {
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
	attempt      int
	strategy     Strategy
}

func New(strategy Strategy, start time.Duration, limit time.Duration) *Backoff {
	b := Backoff{strategy: strategy, start: start, limit: limit}
	b.Reset()
	return &b
}

// Reset goes back to the first duration, called after a productive attempt
func (b *Backoff) Reset() {
	b.attempt = 0
	b.NextDuration = b.next()
}

// Attempts is the number of completed waits since the last Reset
func (b *Backoff) Attempts() int {
	return b.attempt
}

// Backoff waits NextDuration or until ctx is done, in which case ctx's error is returned
func (b *Backoff) Backoff(ctx context.Context) error {
	timer := time.NewTimer(b.NextDuration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	b.attempt++
	b.NextDuration = b.next()
	return nil
}

func (b *Backoff) next() time.Duration {
	d := b.strategy.Duration(b.attempt, b.start)
	if b.limit > 0 && d > b.limit {
		d = b.limit
	}
	return d
}

type exponential struct{}

func (exponential) Duration(attempt int, start time.Duration) time.Duration {
	return time.Duration(int64(math.Pow(2, float64(attempt)))) * start
}

func NewExponential(start time.Duration, limit time.Duration) *Backoff {
	return New(exponential{}, start, limit)
}

type linear struct{}

func (linear) Duration(attempt int, start time.Duration) time.Duration {
	return time.Duration(attempt+1) * start
}

func NewLinear(start time.Duration, limit time.Duration) *Backoff {
	return New(linear{}, start, limit)
}
