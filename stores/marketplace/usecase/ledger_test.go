package usecase

import (
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
	priceformatter "github.com/x-xyz/marketplace/base/price_formatter"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
	mAsset "github.com/x-xyz/marketplace/domain/asset/mocks"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/payment"
	mPayment "github.com/x-xyz/marketplace/domain/payment/mocks"
	"github.com/x-xyz/marketplace/service/cache"
	"github.com/x-xyz/marketplace/service/cache/provider/primitive"
	assetRepository "github.com/x-xyz/marketplace/stores/asset/repository"
	assetUsecase "github.com/x-xyz/marketplace/stores/asset/usecase"
	counterRepository "github.com/x-xyz/marketplace/stores/counter/repository"
	"github.com/x-xyz/marketplace/stores/marketplace/repository"
	paymentRepository "github.com/x-xyz/marketplace/stores/payment/repository"
	paymentUsecase "github.com/x-xyz/marketplace/stores/payment/usecase"
)

var (
	mockCtx          = ctx.Background()
	mockNft          = domain.Address("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	mockMarket       = domain.Address("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512")
	mockFeeRecipient = domain.Address("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	mockSeller       = domain.Address("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	mockBuyer        = domain.Address("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	mockNow          = time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)
)

func ether(s string) *big.Int {
	v, err := priceformatter.ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

type ledgerSuite struct {
	suite.Suite

	counter  domain.CounterRepo
	listings marketplace.ListingRepo
	events   marketplace.EventRepo
	nft      asset.Registry
	bank     payment.Bank
	cache    cache.Service

	im marketplace.UseCase
}

func (s *ledgerSuite) SetupTest() {
	s.counter = counterRepository.NewMemoryCounterRepo()
	s.listings = repository.NewMemoryListingRepo()
	s.events = repository.NewMemoryEventRepo()
	s.nft = assetUsecase.New(&assetUsecase.RegistryCfg{
		Collection:  asset.Collection{Address: mockNft, Name: "DApp NFT", Symbol: "DAPP"},
		Repo:        assetRepository.NewMemoryAssetRepo(),
		CounterRepo: s.counter,
	})
	s.bank = paymentUsecase.New(&paymentUsecase.BankCfg{Repo: paymentRepository.NewMemoryBalanceRepo()})
	s.cache = nil
	s.im = s.build(s.nft, s.bank)

	tokenId, err := s.nft.Mint(mockCtx, mockSeller, "ipfs://token-1")
	s.Require().NoError(err)
	s.Require().Equal(domain.TokenId("1"), tokenId)
	s.Require().NoError(s.nft.SetApprovalForAll(mockCtx, mockSeller, mockMarket, true))
	s.Require().NoError(s.bank.Deposit(mockCtx, mockBuyer, ether("10")))
}

func (s *ledgerSuite) build(registry asset.Registry, bank payment.Bank) marketplace.UseCase {
	return New(&LedgerCfg{
		Config: marketplace.Config{
			Address:      mockMarket,
			FeeRecipient: mockFeeRecipient,
			FeePercent:   1,
		},
		ListingRepo: s.listings,
		EventRepo:   s.events,
		CounterRepo: s.counter,
		Directory:   assetUsecase.NewDirectory(registry),
		Bank:        bank,
		Cache:       s.cache,
		Now:         func() time.Time { return mockNow },
	})
}

func (s *ledgerSuite) list() marketplace.ListingId {
	id, err := s.im.ListItem(mockCtx, mockNft, "1", ether("2"), mockSeller)
	s.Require().NoError(err)
	return id
}

func (s *ledgerSuite) balanceOf(a domain.Address) *big.Int {
	b, err := s.bank.BalanceOf(mockCtx, a)
	s.Require().NoError(err)
	return b
}

func (s *ledgerSuite) ownerOf(tokenId domain.TokenId) domain.Address {
	owner, err := s.nft.OwnerOf(mockCtx, tokenId)
	s.Require().NoError(err)
	return owner
}

func (s *ledgerSuite) allEvents() []*marketplace.Event {
	evs, err := s.im.Events(mockCtx, 0, 0)
	s.Require().NoError(err)
	return evs
}

// state before a purchase that must have been rolled back
func (s *ledgerSuite) assertUnsold(id marketplace.ListingId) {
	l, err := s.im.GetListing(mockCtx, id)
	s.Require().NoError(err)
	s.False(l.Sold)
	s.Equal(mockMarket, s.ownerOf(l.AssetId))
	s.Equal(0, ether("10").Cmp(s.balanceOf(mockBuyer)))
	s.Zero(s.balanceOf(mockSeller).Sign())
	s.Zero(s.balanceOf(mockFeeRecipient).Sign())
	s.Zero(s.balanceOf(mockMarket).Sign())
	s.Len(s.allEvents(), 1)
}

func (s *ledgerSuite) TestConfig() {
	s.Equal(mockMarket, s.im.Address())
	s.Equal(mockFeeRecipient, s.im.FeeRecipient())
	s.Equal(uint64(1), s.im.FeePercent())
}

func (s *ledgerSuite) TestListAndPurchase() {
	id := s.list()
	s.Equal(marketplace.ListingId(1), id)
	s.Equal(mockMarket, s.ownerOf("1"))

	cnt, err := s.im.ListingCount(mockCtx)
	s.NoError(err)
	s.Equal(int64(1), cnt)

	l, err := s.im.GetListing(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(marketplace.Listing{
		ListingId:     1,
		AssetContract: mockNft,
		AssetId:       "1",
		Price:         ether("2").String(),
		Seller:        mockSeller,
		CreatedAt:     mockNow,
	}, *l)

	total, err := s.im.GetTotalPrice(mockCtx, id)
	s.Require().NoError(err)
	s.Equal("2.02", priceformatter.FormatEther(total))

	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, total, mockBuyer))

	s.Equal(mockBuyer, s.ownerOf("1"))
	s.Equal(0, ether("2").Cmp(s.balanceOf(mockSeller)))
	s.Equal(0, ether("0.02").Cmp(s.balanceOf(mockFeeRecipient)))
	s.Equal(0, ether("7.98").Cmp(s.balanceOf(mockBuyer)))
	s.Zero(s.balanceOf(mockMarket).Sign())

	l, err = s.im.GetListing(mockCtx, id)
	s.Require().NoError(err)
	s.True(l.Sold)
	s.Equal(mockBuyer, l.Buyer)

	evs := s.allEvents()
	s.Require().Len(evs, 2)
	s.Equal(int64(1), evs[0].Seq)
	s.Equal(marketplace.EventKindOffered, evs[0].Kind)
	s.Equal(marketplace.ListingId(1), evs[0].ListingId)
	s.Equal(mockNft, evs[0].AssetContract)
	s.Equal(domain.TokenId("1"), evs[0].AssetId)
	s.Equal(ether("2").String(), evs[0].Price)
	s.Equal(mockSeller, evs[0].Seller)
	s.Empty(evs[0].Buyer)
	s.Equal(int64(2), evs[1].Seq)
	s.NotEmpty(evs[1].Id)
	s.NotEqual(evs[0].Id, evs[1].Id)

	bought := evs[1]
	s.Equal(marketplace.EventKindBought, bought.Kind)
	s.Equal(marketplace.ListingId(1), bought.ListingId)
	s.Equal(mockNft, bought.AssetContract)
	s.Equal(domain.TokenId("1"), bought.AssetId)
	s.Equal(ether("2").String(), bought.Price)
	s.Equal(mockSeller, bought.Seller)
	s.Equal(mockBuyer, bought.Buyer)
}

func (s *ledgerSuite) TestFeeIsFloored() {
	id, err := s.im.ListItem(mockCtx, mockNft, "1", big.NewInt(199), mockSeller)
	s.Require().NoError(err)

	total, err := s.im.GetTotalPrice(mockCtx, id)
	s.Require().NoError(err)
	s.Equal(int64(200), total.Int64())
}

func (s *ledgerSuite) TestInvalidPrice() {
	for _, price := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
		_, err := s.im.ListItem(mockCtx, mockNft, "1", price, mockSeller)
		s.True(errors.Is(err, marketplace.ErrInvalidPrice), "price %v", price)
		s.Equal("Price must be greater than zero", err.(*marketplace.Error).Reason)
	}

	cnt, err := s.im.ListingCount(mockCtx)
	s.NoError(err)
	s.Zero(cnt)
	s.Empty(s.allEvents())
	s.Equal(mockSeller, s.ownerOf("1"))
}

func (s *ledgerSuite) TestListWithoutApproval() {
	tokenId, err := s.nft.Mint(mockCtx, mockBuyer, "ipfs://token-2")
	s.Require().NoError(err)

	_, err = s.im.ListItem(mockCtx, mockNft, tokenId, ether("1"), mockBuyer)
	s.True(errors.Is(err, marketplace.ErrTransferRejected))
	s.True(errors.Is(err, asset.ErrNotApproved))
	s.Equal(asset.ErrNotApproved.Error(), err.(*marketplace.Error).Reason)

	cnt, err := s.im.ListingCount(mockCtx)
	s.NoError(err)
	s.Zero(cnt)
	s.Empty(s.allEvents())
	s.Equal(mockBuyer, s.ownerOf(tokenId))
}

func (s *ledgerSuite) TestListNotOwner() {
	_, err := s.im.ListItem(mockCtx, mockNft, "1", ether("1"), mockBuyer)
	s.True(errors.Is(err, marketplace.ErrTransferRejected))
	s.True(errors.Is(err, asset.ErrNotOwner))
	s.Equal(mockSeller, s.ownerOf("1"))
}

func (s *ledgerSuite) TestListUnknownContract() {
	_, err := s.im.ListItem(mockCtx, mockBuyer, "1", ether("1"), mockSeller)
	s.True(errors.Is(err, marketplace.ErrTransferRejected))
	s.True(errors.Is(err, asset.ErrUnknownContract))
}

func (s *ledgerSuite) TestItemNotFound() {
	s.list()

	for _, id := range []marketplace.ListingId{0, 2} {
		_, err := s.im.GetTotalPrice(mockCtx, id)
		s.True(errors.Is(err, marketplace.ErrItemNotFound), "id %d", id)

		_, err = s.im.GetListing(mockCtx, id)
		s.True(errors.Is(err, marketplace.ErrItemNotFound), "id %d", id)

		err = s.im.PurchaseItem(mockCtx, id, ether("10"), mockBuyer)
		s.True(errors.Is(err, marketplace.ErrItemNotFound), "id %d", id)
		s.Equal("Item does not exist.", err.(*marketplace.Error).Reason)
	}
}

func (s *ledgerSuite) TestInsufficientPayment() {
	id := s.list()
	total, err := s.im.GetTotalPrice(mockCtx, id)
	s.Require().NoError(err)

	err = s.im.PurchaseItem(mockCtx, id, new(big.Int).Sub(total, big.NewInt(1)), mockBuyer)
	s.True(errors.Is(err, marketplace.ErrInsufficientPayment))
	s.Equal("Not enough Ether to cover item price and market fee.", err.(*marketplace.Error).Reason)

	err = s.im.PurchaseItem(mockCtx, id, nil, mockBuyer)
	s.True(errors.Is(err, marketplace.ErrInsufficientPayment))

	s.assertUnsold(id)
}

func (s *ledgerSuite) TestAlreadySold() {
	id := s.list()
	total, err := s.im.GetTotalPrice(mockCtx, id)
	s.Require().NoError(err)
	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, total, mockBuyer))

	err = s.im.PurchaseItem(mockCtx, id, total, mockBuyer)
	s.True(errors.Is(err, marketplace.ErrAlreadySold))
	s.Equal("Item has already been sold.", err.(*marketplace.Error).Reason)

	// underpaying a sold listing reports the payment first
	err = s.im.PurchaseItem(mockCtx, id, big.NewInt(1), mockBuyer)
	s.True(errors.Is(err, marketplace.ErrInsufficientPayment))

	s.Equal(0, ether("7.98").Cmp(s.balanceOf(mockBuyer)))
	s.Equal(0, ether("2").Cmp(s.balanceOf(mockSeller)))
	s.Len(s.allEvents(), 2)
}

func (s *ledgerSuite) TestOverpaymentGoesToFeeRecipient() {
	id := s.list()
	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, ether("3"), mockBuyer))

	s.Equal(0, ether("2").Cmp(s.balanceOf(mockSeller)))
	s.Equal(0, ether("1").Cmp(s.balanceOf(mockFeeRecipient)))
	s.Equal(0, ether("7").Cmp(s.balanceOf(mockBuyer)))
}

func (s *ledgerSuite) TestPaymentRejected() {
	id := s.list()

	poor := domain.Address("0x90f79bf6eb2c4f870365e785982e1f101e93b906")
	err := s.im.PurchaseItem(mockCtx, id, ether("2.02"), poor)
	s.True(errors.Is(err, marketplace.ErrPaymentRejected))
	s.True(errors.Is(err, payment.ErrInsufficientFunds))

	s.assertUnsold(id)
}

func (s *ledgerSuite) TestRollbackOnPayoutFailure() {
	id := s.list()

	bank := &mPayment.Bank{}
	bank.On("Send", mock.Anything, mockMarket, mockFeeRecipient, mock.Anything).Return(errors.New("bank offline"))
	bank.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(s.bank.Send)
	s.im = s.build(s.nft, bank)

	err := s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer)
	s.Error(err)
	s.Empty(marketplace.KindOf(err))

	s.assertUnsold(id)
	bank.AssertCalled(s.T(), "Send", mock.Anything, mockSeller, mockMarket, ether("2"))
}

func (s *ledgerSuite) TestRollbackOnTransferFailure() {
	id := s.list()

	registry := &mAsset.Registry{}
	registry.On("Contract").Return(mockNft)
	registry.On("TransferFrom", mock.Anything, mockMarket, mockMarket, mockBuyer, domain.TokenId("1")).Return(asset.ErrNotApproved)
	registry.On("TransferFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(s.nft.TransferFrom)
	s.im = s.build(registry, s.bank)

	err := s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer)
	s.True(errors.Is(err, marketplace.ErrTransferRejected))
	s.Equal(asset.ErrNotApproved.Error(), err.(*marketplace.Error).Reason)

	s.assertUnsold(id)

	// the listing stays purchasable
	s.im = s.build(s.nft, s.bank)
	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer))
	s.Equal(mockBuyer, s.ownerOf("1"))
}

type failingEventRepo struct {
	marketplace.EventRepo
	kind marketplace.EventKind
}

func (r *failingEventRepo) Append(c ctx.Ctx, e *marketplace.Event) error {
	if e.Kind == r.kind {
		return errors.New("disk full")
	}
	return r.EventRepo.Append(c, e)
}

func (s *ledgerSuite) TestListRollbackOnEventFailure() {
	s.events = &failingEventRepo{EventRepo: s.events, kind: marketplace.EventKindOffered}
	s.im = s.build(s.nft, s.bank)

	_, err := s.im.ListItem(mockCtx, mockNft, "1", ether("2"), mockSeller)
	s.Error(err)
	s.Empty(marketplace.KindOf(err))

	cnt, err := s.im.ListingCount(mockCtx)
	s.NoError(err)
	s.Zero(cnt)
	s.Equal(mockSeller, s.ownerOf("1"))
	_, err = s.listings.FindOne(mockCtx, 1)
	s.Equal(domain.ErrNotFound, err)

	// ids stay dense after the rollback
	s.events = s.events.(*failingEventRepo).EventRepo
	s.im = s.build(s.nft, s.bank)
	s.Equal(marketplace.ListingId(1), s.list())
	s.Equal(int64(1), s.allEvents()[0].Seq)
}

func (s *ledgerSuite) TestPurchaseRollbackOnEventFailure() {
	id := s.list()
	s.events = &failingEventRepo{EventRepo: s.events, kind: marketplace.EventKindBought}
	s.im = s.build(s.nft, s.bank)

	s.Error(s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer))
	s.assertUnsold(id)
}

func (s *ledgerSuite) TestCachedListingRefreshedAfterPurchase() {
	s.cache = cache.New(cache.ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "listing",
		Cache: primitive.NewPrimitive("listing", 1),
	})
	s.im = s.build(s.nft, s.bank)

	id := s.list()
	l, err := s.im.GetListing(mockCtx, id)
	s.Require().NoError(err)
	s.False(l.Sold)

	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer))

	l, err = s.im.GetListing(mockCtx, id)
	s.Require().NoError(err)
	s.True(l.Sold)
}

// pausingListingRepo holds the first FindOne after arm until release is closed
type pausingListingRepo struct {
	marketplace.ListingRepo

	mu      sync.Mutex
	armed   bool
	read    chan struct{}
	release chan struct{}
}

func (r *pausingListingRepo) arm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = true
}

func (r *pausingListingRepo) FindOne(c ctx.Ctx, id marketplace.ListingId) (*marketplace.Listing, error) {
	l, err := r.ListingRepo.FindOne(c, id)

	r.mu.Lock()
	pause := r.armed
	r.armed = false
	r.mu.Unlock()

	if pause {
		close(r.read)
		<-r.release
	}
	return l, err
}

func (s *ledgerSuite) TestReadRacingPurchaseNotCached() {
	s.cache = cache.New(cache.ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "listing",
		Cache: primitive.NewPrimitive("listing", 1),
	})
	repo := &pausingListingRepo{
		ListingRepo: s.listings,
		read:        make(chan struct{}),
		release:     make(chan struct{}),
	}
	s.listings = repo
	s.im = s.build(s.nft, s.bank)

	id := s.list()

	repo.arm()
	done := make(chan *marketplace.Listing, 1)
	go func() {
		l, _ := s.im.GetListing(mockCtx, id)
		done <- l
	}()
	<-repo.read

	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer))
	close(repo.release)

	stale := <-done
	s.Require().NotNil(stale)
	s.False(stale.Sold)

	for i := 0; i < 2; i++ {
		l, err := s.im.GetListing(mockCtx, id)
		s.Require().NoError(err)
		s.True(l.Sold)
		s.Equal(mockBuyer, l.Buyer)
	}
}

func (s *ledgerSuite) TestEventsPaging() {
	id := s.list()
	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer))

	evs, err := s.im.Events(mockCtx, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(evs, 1)
	s.Equal(marketplace.EventKindBought, evs[0].Kind)

	evs, err = s.im.Events(mockCtx, 0, 1)
	s.Require().NoError(err)
	s.Require().Len(evs, 1)
	s.Equal(marketplace.EventKindOffered, evs[0].Kind)
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(ledgerSuite))
}
