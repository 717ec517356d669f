package repository

import (
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

type memoryTrackerStateRepo struct {
	mu     sync.Mutex
	states map[string]domain.TrackerState
}

func NewMemoryTrackerStateRepo() domain.TrackerStateRepo {
	return &memoryTrackerStateRepo{states: map[string]domain.TrackerState{}}
}

func (im *memoryTrackerStateRepo) Get(_ ctx.Ctx, name string) (*domain.TrackerState, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	state, ok := im.states[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

func (im *memoryTrackerStateRepo) Store(_ ctx.Ctx, state *domain.TrackerState) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.states[state.Name] = *state
	return nil
}
