package usecase

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/payment"
	"github.com/x-xyz/marketplace/service/cache"
)

const (
	listingCounter = string(domain.TableListings)
	eventCounter   = string(domain.TableMarketEvents)

	defaultEventLimit = 100
	maxEventLimit     = 1000
)

var hundred = big.NewInt(100)

type LedgerCfg struct {
	Config      marketplace.Config
	ListingRepo marketplace.ListingRepo
	EventRepo   marketplace.EventRepo
	CounterRepo domain.CounterRepo
	Directory   asset.Directory
	Bank        payment.Bank
	Transactor  domain.Transactor
	// Cache is optional, sold listings are read through it when set
	Cache   cache.Service
	Metrics metrics.Service
	Now     func() time.Time
}

type impl struct {
	// mu serializes ListItem and PurchaseItem
	mu sync.Mutex

	cfg       marketplace.Config
	listings  marketplace.ListingRepo
	events    marketplace.EventRepo
	counter   domain.CounterRepo
	directory asset.Directory
	bank      payment.Bank
	tx        domain.Transactor
	cache     cache.Service
	met       metrics.Service
	now       func() time.Time
}

func New(cfg *LedgerCfg) marketplace.UseCase {
	c := cfg.Config
	c.Address = c.Address.ToLower()
	c.FeeRecipient = c.FeeRecipient.ToLower()

	im := &impl{
		cfg:       c,
		listings:  cfg.ListingRepo,
		events:    cfg.EventRepo,
		counter:   cfg.CounterRepo,
		directory: cfg.Directory,
		bank:      cfg.Bank,
		tx:        cfg.Transactor,
		cache:     cfg.Cache,
		met:       cfg.Metrics,
		now:       cfg.Now,
	}
	if im.tx == nil {
		im.tx = domain.NoopTransactor{}
	}
	if im.met == nil {
		im.met = metrics.New("marketplace")
	}
	if im.now == nil {
		im.now = time.Now
	}
	return im
}

func (im *impl) Address() domain.Address {
	return im.cfg.Address
}

func (im *impl) FeeRecipient() domain.Address {
	return im.cfg.FeeRecipient
}

func (im *impl) FeePercent() uint64 {
	return im.cfg.FeePercent
}

func (im *impl) totalPrice(price *big.Int) *big.Int {
	fee := new(big.Int).Mul(price, new(big.Int).SetUint64(im.cfg.FeePercent))
	fee.Quo(fee, hundred)
	return fee.Add(fee, price)
}

// fail reports err under op and hands it back
func (im *impl) fail(c ctx.Ctx, op string, err error) error {
	kind := marketplace.KindOf(err)
	fields := log.Fields{"err": err, "op": op}
	if kind == "" {
		im.met.BumpSum(op+".err", 1, "kind", "internal")
		c.WithFields(fields).Error("marketplace call failed")
	} else {
		im.met.BumpSum(op+".err", 1, "kind", string(kind))
		c.WithFields(fields).Info("marketplace call rejected")
	}
	return err
}

func isRegistryRefusal(err error) bool {
	for _, target := range []error{
		asset.ErrTokenNotFound,
		asset.ErrNotOwner,
		asset.ErrNotApproved,
		asset.ErrTransferToZero,
		asset.ErrUnknownContract,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isBankRefusal(err error) bool {
	return errors.Is(err, payment.ErrInsufficientFunds) || errors.Is(err, payment.ErrInvalidAmount)
}

func transferErr(err error) error {
	if isRegistryRefusal(err) {
		return marketplace.TransferRejected(err)
	}
	return xerrors.Errorf("asset transfer: %w", err)
}

func paymentErr(err error) error {
	if isBankRefusal(err) {
		return marketplace.PaymentRejected(err)
	}
	return xerrors.Errorf("payment: %w", err)
}

func (im *impl) findListing(c ctx.Ctx, id marketplace.ListingId) (*marketplace.Listing, error) {
	if id == 0 {
		return nil, marketplace.ErrItemNotFound
	}
	l, err := im.listings.FindOne(c, id)
	if err == domain.ErrNotFound {
		return nil, marketplace.ErrItemNotFound
	} else if err != nil {
		return nil, xerrors.Errorf("find listing %d: %w", id, err)
	}
	return l, nil
}

func (im *impl) appendEvent(c ctx.Ctx, st *steps, e *marketplace.Event) error {
	var seq int64
	if err := st.run("counter.Next", func() (err error) {
		seq, err = im.counter.Next(c, eventCounter)
		return err
	}, func(c ctx.Ctx) error {
		return im.counter.Release(c, eventCounter, seq)
	}); err != nil {
		return xerrors.Errorf("allocate event seq: %w", err)
	}

	e.Seq = seq
	e.Id = uuid.NewString()
	if err := st.run("events.Append", func() error {
		return im.events.Append(c, e)
	}, nil); err != nil {
		return xerrors.Errorf("append %s event: %w", e.Kind, err)
	}
	return nil
}

func (im *impl) ListItem(c ctx.Ctx, assetContract domain.Address, assetId domain.TokenId, price *big.Int, caller domain.Address) (marketplace.ListingId, error) {
	const op = "list_item"
	defer im.met.BumpTime(op + ".time").End()

	if price == nil || price.Sign() <= 0 {
		return 0, im.fail(c, op, marketplace.ErrInvalidPrice)
	}

	registry, err := im.directory.Get(assetContract)
	if err != nil {
		return 0, im.fail(c, op, transferErr(err))
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	var id marketplace.ListingId
	err = im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		st := newSteps(c)

		if err := st.run("registry.TransferFrom", func() error {
			return registry.TransferFrom(c, im.cfg.Address, caller, im.cfg.Address, assetId)
		}, func(c ctx.Ctx) error {
			return registry.TransferFrom(c, im.cfg.Address, im.cfg.Address, caller, assetId)
		}); err != nil {
			return transferErr(err)
		}

		if err := st.run("counter.Next", func() error {
			v, err := im.counter.Next(c, listingCounter)
			id = marketplace.ListingId(v)
			return err
		}, func(c ctx.Ctx) error {
			return im.counter.Release(c, listingCounter, int64(id))
		}); err != nil {
			return xerrors.Errorf("allocate listing id: %w", err)
		}

		listing := &marketplace.Listing{
			ListingId:     id,
			AssetContract: registry.Contract(),
			AssetId:       assetId,
			Price:         price.String(),
			Seller:        caller.ToLower(),
			CreatedAt:     im.now(),
		}
		if err := st.run("listings.Insert", func() error {
			return im.listings.Insert(c, listing)
		}, func(c ctx.Ctx) error {
			return im.listings.Remove(c, id)
		}); err != nil {
			return xerrors.Errorf("insert listing %d: %w", id, err)
		}

		return im.appendEvent(c, st, &marketplace.Event{
			Kind:          marketplace.EventKindOffered,
			ListingId:     id,
			AssetContract: listing.AssetContract,
			AssetId:       listing.AssetId,
			Price:         listing.Price,
			Seller:        listing.Seller,
			CreatedAt:     listing.CreatedAt,
		})
	})
	if err != nil {
		return 0, im.fail(c, op, err)
	}

	im.met.BumpSum("listing.created", 1)
	c.WithFields(log.Fields{"listingId": id, "assetContract": assetContract, "assetId": assetId, "price": price, "seller": caller}).Info("item listed")
	return id, nil
}

func (im *impl) GetTotalPrice(c ctx.Ctx, id marketplace.ListingId) (*big.Int, error) {
	l, err := im.GetListing(c, id)
	if err != nil {
		return nil, err
	}
	return im.totalPrice(l.PriceInt()), nil
}

func (im *impl) PurchaseItem(c ctx.Ctx, id marketplace.ListingId, amount *big.Int, caller domain.Address) error {
	const op = "purchase_item"
	defer im.met.BumpTime(op + ".time").End()

	if amount == nil {
		amount = new(big.Int)
	}
	pay := payment.Payment{From: caller.ToLower(), Amount: new(big.Int).Set(amount)}

	im.mu.Lock()
	defer im.mu.Unlock()

	var bought *marketplace.Listing
	err := im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		l, err := im.findListing(c, id)
		if err != nil {
			return err
		}
		price := l.PriceInt()
		if pay.Amount.Cmp(im.totalPrice(price)) < 0 {
			return marketplace.ErrInsufficientPayment
		}
		if l.Sold {
			return marketplace.ErrAlreadySold
		}

		registry, err := im.directory.Get(l.AssetContract)
		if err != nil {
			return transferErr(err)
		}

		st := newSteps(c)
		market := im.cfg.Address

		if err := st.run("listings.MarkSold", func() error {
			return im.listings.MarkSold(c, id, pay.From, im.now())
		}, func(c ctx.Ctx) error {
			return im.listings.UnmarkSold(c, id)
		}); err == domain.ErrConflict {
			return marketplace.ErrAlreadySold
		} else if err != nil {
			return xerrors.Errorf("mark listing %d sold: %w", id, err)
		}

		if err := st.run("bank.Send(payment)", func() error {
			return im.bank.Send(c, pay.From, market, pay.Amount)
		}, func(c ctx.Ctx) error {
			return im.bank.Send(c, market, pay.From, pay.Amount)
		}); err != nil {
			return paymentErr(err)
		}

		if err := st.run("bank.Send(seller)", func() error {
			return im.bank.Send(c, market, l.Seller, price)
		}, func(c ctx.Ctx) error {
			return im.bank.Send(c, l.Seller, market, price)
		}); err != nil {
			return paymentErr(err)
		}

		// fee plus whatever the buyer paid beyond the total
		fee := new(big.Int).Sub(pay.Amount, price)
		if err := st.run("bank.Send(fee)", func() error {
			return im.bank.Send(c, market, im.cfg.FeeRecipient, fee)
		}, func(c ctx.Ctx) error {
			return im.bank.Send(c, im.cfg.FeeRecipient, market, fee)
		}); err != nil {
			return paymentErr(err)
		}

		if err := st.run("registry.TransferFrom", func() error {
			return registry.TransferFrom(c, market, market, pay.From, l.AssetId)
		}, func(c ctx.Ctx) error {
			return registry.TransferFrom(c, pay.From, pay.From, market, l.AssetId)
		}); err != nil {
			return transferErr(err)
		}

		if err := im.appendEvent(c, st, &marketplace.Event{
			Kind:          marketplace.EventKindBought,
			ListingId:     id,
			AssetContract: l.AssetContract,
			AssetId:       l.AssetId,
			Price:         l.Price,
			Seller:        l.Seller,
			Buyer:         pay.From,
			CreatedAt:     im.now(),
		}); err != nil {
			return err
		}

		bought = l
		return nil
	})
	if err != nil {
		return im.fail(c, op, err)
	}

	im.met.BumpSum("purchase.completed", 1)
	c.WithFields(log.Fields{"listingId": id, "price": bought.Price, "amount": pay.Amount, "seller": bought.Seller, "buyer": pay.From}).Info("item bought")
	return nil
}

// GetListing caches sold listings only. Sold is terminal, so a cached copy
// can never be older than the stored one.
func (im *impl) GetListing(c ctx.Ctx, id marketplace.ListingId) (*marketplace.Listing, error) {
	if im.cache == nil || id == 0 {
		return im.findListing(c, id)
	}

	res := &marketplace.Listing{}
	if err := im.cache.Get(c, id.String(), res); err == nil {
		return res, nil
	} else if err != cache.ErrNotFound {
		c.WithFields(log.Fields{"err": err, "listingId": id}).Warn("failed to cache.Get")
	}

	l, err := im.findListing(c, id)
	if err != nil {
		return nil, err
	}
	if l.Sold {
		if err := im.cache.Set(c, id.String(), l); err != nil {
			c.WithFields(log.Fields{"err": err, "listingId": id}).Warn("failed to cache.Set")
		}
	}
	return l, nil
}

func (im *impl) ListingCount(c ctx.Ctx) (int64, error) {
	cnt, err := im.counter.Current(c, listingCounter)
	if err != nil {
		c.WithFields(log.Fields{"err": err}).Error("failed to counter.Current")
		return 0, err
	}
	return cnt, nil
}

func (im *impl) Events(c ctx.Ctx, afterSeq int64, limit int) ([]*marketplace.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	} else if limit > maxEventLimit {
		limit = maxEventLimit
	}
	if afterSeq < 0 {
		afterSeq = 0
	}
	evs, err := im.events.FindAfter(c, afterSeq, limit)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "afterSeq": afterSeq}).Error("failed to events.FindAfter")
		return nil, err
	}
	return evs, nil
}
