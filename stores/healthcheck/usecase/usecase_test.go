package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketplace/base/ctx"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
	"github.com/x-xyz/marketplace/domain/keys"
	"github.com/x-xyz/marketplace/service/redis/mocks"
	"github.com/x-xyz/marketplace/stores/healthcheck/repository"
)

func TestCheckWithoutRepos(t *testing.T) {
	require.NoError(t, New().Check(ctx.Background()))
	require.Empty(t, New().Report(ctx.Background()))
}

func TestCheckRedis(t *testing.T) {
	r := &mocks.Service{}
	r.On("Name").Return("cache")
	r.On("Ping", mock.Anything).Return(nil).Once()
	r.On("Set", mock.Anything, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second).Return(nil).Once()

	im := New(repository.NewRedisRepo(r))
	require.NoError(t, im.Check(ctx.Background()))

	errDown := errors.New("connection refused")
	r.On("Ping", mock.Anything).Return(errDown).Once()
	err := im.Check(ctx.Background())
	require.ErrorIs(t, err, errDown)
	require.Contains(t, err.Error(), "redis:cache")

	r.On("Ping", mock.Anything).Return(errDown).Once()
	require.Equal(t, []hcdomain.BackendStatus{
		{Name: "redis:cache", Healthy: false, Error: errDown.Error()},
	}, im.Report(ctx.Background()))
	r.AssertExpectations(t)
}
