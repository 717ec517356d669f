package repository

import (
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

type memoryCounterRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewMemoryCounterRepo keeps counters in process memory
func NewMemoryCounterRepo() domain.CounterRepo {
	return &memoryCounterRepo{values: map[string]int64{}}
}

func (im *memoryCounterRepo) Next(_ ctx.Ctx, name string) (int64, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.values[name]++
	return im.values[name], nil
}

func (im *memoryCounterRepo) Current(_ ctx.Ctx, name string) (int64, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.values[name], nil
}

func (im *memoryCounterRepo) Release(_ ctx.Ctx, name string, value int64) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.values[name] == value && value > 0 {
		im.values[name]--
	}
	return nil
}
