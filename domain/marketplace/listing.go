package marketplace

import (
	"math/big"
	"strconv"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

// ListingId is dense and starts at 1, 0 is never a valid id
type ListingId int64

func (id ListingId) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ToListingId parses a decimal id, invalid input yields 0
func ToListingId(s string) ListingId {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return ListingId(v)
}

type Listing struct {
	ListingId     ListingId      `json:"listingId" bson:"listingId"`
	AssetContract domain.Address `json:"assetContract" bson:"assetContract"`
	AssetId       domain.TokenId `json:"assetId" bson:"assetId"`
	// Price is a decimal string of wei
	Price     string         `json:"price" bson:"price"`
	Seller    domain.Address `json:"seller" bson:"seller"`
	Sold      bool           `json:"sold" bson:"sold"`
	Buyer     domain.Address `json:"buyer,omitempty" bson:"buyer,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	SoldAt    *time.Time     `json:"soldAt,omitempty" bson:"soldAt,omitempty"`
}

func (l *Listing) PriceInt() *big.Int {
	v, ok := new(big.Int).SetString(l.Price, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// PatchableListing holds the fields a purchase changes
type PatchableListing struct {
	Sold   *bool           `bson:"sold,omitempty"`
	Buyer  *domain.Address `bson:"buyer,omitempty"`
	SoldAt *time.Time      `bson:"soldAt,omitempty"`
}

type ListingRepo interface {
	Insert(c ctx.Ctx, listing *Listing) error
	// FindOne returns domain.ErrNotFound for unknown ids
	FindOne(c ctx.Ctx, id ListingId) (*Listing, error)
	// MarkSold flips sold only while it is still false, domain.ErrConflict otherwise
	MarkSold(c ctx.Ctx, id ListingId, buyer domain.Address, at time.Time) error
	// UnmarkSold reverts a MarkSold of the same call, used on rollback only
	UnmarkSold(c ctx.Ctx, id ListingId) error
	// Remove deletes a listing created by the same call, used on rollback only
	Remove(c ctx.Ctx, id ListingId) error
}

// Config is fixed when the ledger is built
type Config struct {
	// Address is the escrow account of the ledger
	Address      domain.Address
	FeeRecipient domain.Address
	FeePercent   uint64
}

// UseCase is the marketplace ledger
type UseCase interface {
	// ListItem escrows the asset and creates a listing owned by caller
	ListItem(c ctx.Ctx, assetContract domain.Address, assetId domain.TokenId, price *big.Int, caller domain.Address) (ListingId, error)
	// GetTotalPrice is price plus the marketplace fee, what a buyer must pay
	GetTotalPrice(c ctx.Ctx, id ListingId) (*big.Int, error)
	// PurchaseItem pays out seller and fee recipient from amount and hands the asset to caller
	PurchaseItem(c ctx.Ctx, id ListingId, amount *big.Int, caller domain.Address) error
	GetListing(c ctx.Ctx, id ListingId) (*Listing, error)
	ListingCount(c ctx.Ctx) (int64, error)
	// Events returns up to limit events with seq greater than afterSeq, oldest first
	Events(c ctx.Ctx, afterSeq int64, limit int) ([]*Event, error)

	Address() domain.Address
	FeeRecipient() domain.Address
	FeePercent() uint64
}
