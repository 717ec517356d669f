package marketplace

import (
	"math/big"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

type EventKind string

const (
	EventKindOffered EventKind = "Offered"
	EventKindBought  EventKind = "Bought"
)

// Event is one entry of the append-only marketplace log
type Event struct {
	Seq           int64          `json:"seq" bson:"seq"`
	Id            string         `json:"id" bson:"id"`
	Kind          EventKind      `json:"kind" bson:"kind"`
	ListingId     ListingId      `json:"listingId" bson:"listingId"`
	AssetContract domain.Address `json:"assetContract" bson:"assetContract"`
	AssetId       domain.TokenId `json:"assetId" bson:"assetId"`
	Price         string         `json:"price" bson:"price"`
	Seller        domain.Address `json:"seller" bson:"seller"`
	Buyer         domain.Address `json:"buyer,omitempty" bson:"buyer,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
}

func (e *Event) PriceInt() *big.Int {
	v, ok := new(big.Int).SetString(e.Price, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

type EventRepo interface {
	// Append stores e, seq must not exist yet
	Append(c ctx.Ctx, e *Event) error
	// FindAfter returns events with seq > afterSeq ordered by seq
	FindAfter(c ctx.Ctx, afterSeq int64, limit int) ([]*Event, error)
}
