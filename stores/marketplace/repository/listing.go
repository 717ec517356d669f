package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/database/mongoclient"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/ptr"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/service/query"
)

type listingRepoImpl struct {
	q query.Mongo
}

func NewListingRepo(q query.Mongo) marketplace.ListingRepo {
	return &listingRepoImpl{q}
}

func normListing(l *marketplace.Listing) marketplace.Listing {
	n := *l
	n.AssetContract = n.AssetContract.ToLower()
	n.Seller = n.Seller.ToLower()
	n.Buyer = n.Buyer.ToLower()
	return n
}

func (im *listingRepoImpl) Insert(ctx ctx.Ctx, listing *marketplace.Listing) error {
	l := normListing(listing)
	if err := im.q.Insert(ctx, domain.TableListings, l); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"listing": l,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *listingRepoImpl) FindOne(ctx ctx.Ctx, id marketplace.ListingId) (*marketplace.Listing, error) {
	res := &marketplace.Listing{}
	if err := im.q.FindOne(ctx, domain.TableListings, bson.M{"listingId": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return res, nil
}

func (im *listingRepoImpl) MarkSold(ctx ctx.Ctx, id marketplace.ListingId, buyer domain.Address, at time.Time) error {
	b := buyer.ToLower()
	patchable := marketplace.PatchableListing{
		Sold:   ptr.Bool(true),
		Buyer:  &b,
		SoldAt: ptr.Time(at),
	}
	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"patchable": patchable,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	selector := bson.M{"listingId": id, "sold": false}
	if err := im.q.Patch(ctx, domain.TableListings, selector, updater); err == query.ErrNotFound {
		if _, err := im.FindOne(ctx, id); err != nil {
			return err
		}
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.Patch")
		return err
	}
	return nil
}

func (im *listingRepoImpl) UnmarkSold(ctx ctx.Ctx, id marketplace.ListingId) error {
	selector := bson.M{"listingId": id}
	updater := bson.M{
		"$set":   bson.M{"sold": false},
		"$unset": bson.M{"buyer": "", "soldAt": ""},
	}
	if err := im.q.CustomPatch(ctx, domain.TableListings, selector, updater, false); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.CustomPatch")
		return err
	}
	return nil
}

func (im *listingRepoImpl) Remove(ctx ctx.Ctx, id marketplace.ListingId) error {
	if err := im.q.Remove(ctx, domain.TableListings, bson.M{"listingId": id}); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.Remove")
		return err
	}
	return nil
}

// Indexes the marketplace tables rely on
func Indexes() map[domain.Table][]query.Index {
	return map[domain.Table][]query.Index{
		domain.TableListings: {
			{Keys: []string{"listingId"}, Unique: true},
		},
		domain.TableMarketEvents: {
			{Keys: []string{"seq"}, Unique: true},
			{Keys: []string{"listingId"}},
		},
	}
}
