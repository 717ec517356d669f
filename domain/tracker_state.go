package domain

import (
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
)

// TrackerState is the stored cursor of a named log follower
type TrackerState struct {
	Name string `bson:"name"`
	// LastSeq is the seq of the last event handed to the consumer
	LastSeq   int64     `bson:"lastSeq"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type TrackerStateRepo interface {
	// Get returns ErrNotFound for a tracker that never stored a cursor
	Get(c ctx.Ctx, name string) (*TrackerState, error)
	// Store inserts or replaces the state keyed by its name
	Store(c ctx.Ctx, state *TrackerState) error
}
