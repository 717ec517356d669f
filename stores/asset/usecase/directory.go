package usecase

import (
	"sort"

	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
)

type directory struct {
	registries map[domain.Address]asset.Registry
}

// NewDirectory indexes registries by contract address
func NewDirectory(registries ...asset.Registry) asset.Directory {
	d := &directory{registries: map[domain.Address]asset.Registry{}}
	for _, r := range registries {
		d.registries[r.Contract().ToLower()] = r
	}
	return d
}

func (d *directory) Get(contract domain.Address) (asset.Registry, error) {
	r, ok := d.registries[contract.ToLower()]
	if !ok {
		return nil, asset.ErrUnknownContract
	}
	return r, nil
}

func (d *directory) List() []asset.Registry {
	res := make([]asset.Registry, 0, len(d.registries))
	for _, r := range d.registries {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Contract() < res[j].Contract() })
	return res
}
