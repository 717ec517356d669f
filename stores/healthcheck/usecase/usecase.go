package usecase

import (
	"time"

	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/x-xyz/marketplace/base/ctx"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
)

const pingTimeout = 2 * time.Second

type impl struct {
	repos []hcdomain.HealthCheckRepo
}

// New checks every repo in order, no repos means healthy
func New(repos ...hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repos: repos,
	}
}

func (im *impl) Check(context ctx.Ctx) error {
	c, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()

	for _, repo := range im.repos {
		if err := repo.Ping(c); err != nil {
			return xerrors.Errorf("%s: %w", repo.Name(), err)
		}
	}
	return nil
}

type indexedStatus struct {
	idx    int
	status hcdomain.BackendStatus
}

// Report pings the backends concurrently, results keep the order of repos
func (im *impl) Report(context ctx.Ctx) []hcdomain.BackendStatus {
	res := make([]hcdomain.BackendStatus, len(im.repos))
	if len(im.repos) == 0 {
		return res
	}

	c, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()

	b := goroutines.NewBatch(len(im.repos), goroutines.WithBatchSize(len(im.repos)))
	defer b.Close()
	for i := range im.repos {
		idx := i
		b.Queue(func() (interface{}, error) {
			repo := im.repos[idx]
			status := hcdomain.BackendStatus{Name: repo.Name(), Healthy: true}
			if err := repo.Ping(c); err != nil {
				status.Healthy = false
				status.Error = err.Error()
			}
			return indexedStatus{idx: idx, status: status}, nil
		})
	}
	b.QueueComplete()

	for ret := range b.Results() {
		v := ret.Value().(indexedStatus)
		res[v.idx] = v.status
	}
	return res
}
