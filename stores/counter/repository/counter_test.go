package repository

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/database/mongoclient"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/service/query"
)

var (
	mockCtx = ctx.Background()
)

// counterSuite runs against both backends
type counterSuite struct {
	suite.Suite
	newRepo func() domain.CounterRepo
	repo    domain.CounterRepo
}

func (s *counterSuite) SetupTest() {
	s.repo = s.newRepo()
}

func (s *counterSuite) TestNextIsDense() {
	for i := int64(1); i <= 3; i++ {
		v, err := s.repo.Next(mockCtx, "listings")
		s.Require().NoError(err)
		s.Equal(i, v)
	}
	cur, err := s.repo.Current(mockCtx, "listings")
	s.NoError(err)
	s.Equal(int64(3), cur)

	// independent names
	v, err := s.repo.Next(mockCtx, "events")
	s.NoError(err)
	s.Equal(int64(1), v)
}

func (s *counterSuite) TestCurrentOfUnknown() {
	cur, err := s.repo.Current(mockCtx, "unknown")
	s.NoError(err)
	s.Equal(int64(0), cur)
}

func (s *counterSuite) TestRelease() {
	v, err := s.repo.Next(mockCtx, "listings")
	s.Require().NoError(err)
	s.NoError(s.repo.Release(mockCtx, "listings", v))

	cur, err := s.repo.Current(mockCtx, "listings")
	s.NoError(err)
	s.Equal(int64(0), cur)

	// stale release keeps the counter
	_, _ = s.repo.Next(mockCtx, "listings")
	_, _ = s.repo.Next(mockCtx, "listings")
	s.NoError(s.repo.Release(mockCtx, "listings", 1))
	cur, err = s.repo.Current(mockCtx, "listings")
	s.NoError(err)
	s.Equal(int64(2), cur)
}

func TestMemoryCounterRepo(t *testing.T) {
	suite.Run(t, &counterSuite{newRepo: NewMemoryCounterRepo})
}

func TestMongoCounterRepo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client := mongoclient.MustConnect(mongoclient.Config{URI: uri, AuthDBName: "admin", DBName: "marketplace_test"})
	q := query.New(client, false)
	suite.Run(t, &counterSuite{newRepo: func() domain.CounterRepo {
		_ = client.Database(client.DbName).Collection(string(domain.TableCounters)).Drop(mockCtx)
		return NewCounterRepo(q)
	}})
}
