package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

type memoryListingRepo struct {
	mu       sync.RWMutex
	listings map[marketplace.ListingId]marketplace.Listing
}

// NewMemoryListingRepo keeps listings in process memory
func NewMemoryListingRepo() marketplace.ListingRepo {
	return &memoryListingRepo{listings: map[marketplace.ListingId]marketplace.Listing{}}
}

func (im *memoryListingRepo) Insert(_ ctx.Ctx, listing *marketplace.Listing) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.listings[listing.ListingId]; ok {
		return domain.ErrConflict
	}
	im.listings[listing.ListingId] = normListing(listing)
	return nil
}

func (im *memoryListingRepo) FindOne(_ ctx.Ctx, id marketplace.ListingId) (*marketplace.Listing, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	l, ok := im.listings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (im *memoryListingRepo) MarkSold(_ ctx.Ctx, id marketplace.ListingId, buyer domain.Address, at time.Time) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	l, ok := im.listings[id]
	if !ok {
		return domain.ErrNotFound
	} else if l.Sold {
		return domain.ErrConflict
	}
	l.Sold = true
	l.Buyer = buyer.ToLower()
	l.SoldAt = &at
	im.listings[id] = l
	return nil
}

func (im *memoryListingRepo) UnmarkSold(_ ctx.Ctx, id marketplace.ListingId) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	l, ok := im.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Sold = false
	l.Buyer = ""
	l.SoldAt = nil
	im.listings[id] = l
	return nil
}

func (im *memoryListingRepo) Remove(_ ctx.Ctx, id marketplace.ListingId) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.listings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(im.listings, id)
	return nil
}

type memoryEventRepo struct {
	mu     sync.RWMutex
	events []marketplace.Event
}

// NewMemoryEventRepo keeps the event log in process memory
func NewMemoryEventRepo() marketplace.EventRepo {
	return &memoryEventRepo{}
}

func (im *memoryEventRepo) Append(_ ctx.Ctx, e *marketplace.Event) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	for _, ev := range im.events {
		if ev.Seq == e.Seq {
			return domain.ErrConflict
		}
	}
	ev := *e
	ev.AssetContract = ev.AssetContract.ToLower()
	ev.Seller = ev.Seller.ToLower()
	ev.Buyer = ev.Buyer.ToLower()
	im.events = append(im.events, ev)
	sort.Slice(im.events, func(i, j int) bool { return im.events[i].Seq < im.events[j].Seq })
	return nil
}

func (im *memoryEventRepo) FindAfter(_ ctx.Ctx, afterSeq int64, limit int) ([]*marketplace.Event, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	res := []*marketplace.Event{}
	for i := range im.events {
		if im.events[i].Seq <= afterSeq {
			continue
		}
		if limit > 0 && len(res) >= limit {
			break
		}
		ev := im.events[i]
		res = append(res, &ev)
	}
	return res, nil
}
