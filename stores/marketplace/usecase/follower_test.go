package usecase

import (
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
	trackerStateRepository "github.com/x-xyz/marketplace/stores/tracker_state/repository"
)

func (s *ledgerSuite) TestFollower() {
	f := NewFollower(&FollowerCfg{
		UseCase:         s.im,
		PollInterval:    time.Millisecond,
		MaxPollInterval: 10 * time.Millisecond,
	})

	c, cancel := ctx.WithCancel(mockCtx)
	defer cancel()
	evs := f.Run(c)

	id := s.list()
	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer))

	for _, kind := range []marketplace.EventKind{marketplace.EventKindOffered, marketplace.EventKindBought} {
		select {
		case ev := <-evs:
			s.Equal(kind, ev.Kind)
			s.Equal(id, ev.ListingId)
		case <-time.After(time.Second):
			s.FailNow("follower did not deliver", kind)
		}
	}
	s.Eventually(func() bool { return f.Last() == 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case _, ok := <-evs:
		s.False(ok)
	case <-time.After(time.Second):
		s.FailNow("follower did not stop")
	}
}

type mockEventSource struct {
	marketplace.UseCase
	mock.Mock
}

func (m *mockEventSource) Events(c ctx.Ctx, afterSeq int64, limit int) ([]*marketplace.Event, error) {
	ret := m.Called(afterSeq, limit)
	evs, _ := ret.Get(0).([]*marketplace.Event)
	return evs, ret.Error(1)
}

func (s *ledgerSuite) TestFollowerResumesAfterError() {
	src := &mockEventSource{}
	src.On("Events", int64(5), 2).Return(nil, errors.New("mongo down")).Once()
	src.On("Events", int64(5), 2).Return([]*marketplace.Event{{Seq: 6}, {Seq: 7}}, nil).Once()
	src.On("Events", int64(7), 2).Return([]*marketplace.Event{}, nil)

	f := NewFollower(&FollowerCfg{
		UseCase:      src,
		After:        5,
		BatchSize:    2,
		PollInterval: time.Millisecond,
	})

	c, cancel := ctx.WithCancel(mockCtx)
	defer cancel()
	evs := f.Run(c)

	for _, seq := range []int64{6, 7} {
		select {
		case ev := <-evs:
			s.Equal(seq, ev.Seq)
		case <-time.After(time.Second):
			s.FailNow("follower did not deliver", seq)
		}
	}
}

func (s *ledgerSuite) TestFollowerRestartSkipsDelivered() {
	states := trackerStateRepository.NewMemoryTrackerStateRepo()
	cfg := &FollowerCfg{
		UseCase:      s.im,
		StateRepo:    states,
		Name:         "notifier",
		PollInterval: time.Millisecond,
	}

	id := s.list()
	s.Require().NoError(s.im.PurchaseItem(mockCtx, id, ether("2.02"), mockBuyer))

	c, cancel := ctx.WithCancel(mockCtx)
	evs := NewFollower(cfg).Run(c)
	for _, seq := range []int64{1, 2} {
		select {
		case ev := <-evs:
			s.Equal(seq, ev.Seq)
		case <-time.After(time.Second):
			s.FailNow("follower did not deliver", seq)
		}
	}
	s.Eventually(func() bool {
		state, err := states.Get(mockCtx, "notifier")
		return err == nil && state.LastSeq == 2
	}, time.Second, time.Millisecond)
	cancel()
	for range evs {
	}

	tokenId, err := s.nft.Mint(mockCtx, mockSeller, "ipfs://token-2")
	s.Require().NoError(err)
	_, err = s.im.ListItem(mockCtx, mockNft, tokenId, ether("1"), mockSeller)
	s.Require().NoError(err)

	c, cancel = ctx.WithCancel(mockCtx)
	defer cancel()
	restarted := NewFollower(cfg)
	evs = restarted.Run(c)
	select {
	case ev := <-evs:
		s.Equal(int64(3), ev.Seq)
		s.Equal(marketplace.EventKindOffered, ev.Kind)
		s.Equal(domain.TokenId("2"), ev.AssetId)
	case <-time.After(time.Second):
		s.FailNow("restarted follower did not deliver")
	}
	s.Eventually(func() bool { return restarted.Last() == 3 }, time.Second, time.Millisecond)
}
