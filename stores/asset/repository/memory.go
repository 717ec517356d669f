package repository

import (
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
)

type approvalKey struct {
	contract, owner, operator domain.Address
}

type memoryAssetRepo struct {
	mu        sync.RWMutex
	tokens    map[asset.TokenId]asset.Token
	approvals map[approvalKey]bool
}

// NewMemoryAssetRepo keeps tokens and approvals in process memory
func NewMemoryAssetRepo() asset.Repo {
	return &memoryAssetRepo{
		tokens:    map[asset.TokenId]asset.Token{},
		approvals: map[approvalKey]bool{},
	}
}

func normId(id asset.TokenId) asset.TokenId {
	return asset.TokenId{Contract: id.Contract.ToLower(), TokenId: id.TokenId}
}

func (im *memoryAssetRepo) InsertToken(_ ctx.Ctx, token *asset.Token) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	t := *token
	t.Contract = t.Contract.ToLower()
	t.Owner = t.Owner.ToLower()
	if _, ok := im.tokens[t.ToId()]; ok {
		return domain.ErrConflict
	}
	im.tokens[t.ToId()] = t
	return nil
}

func (im *memoryAssetRepo) FindToken(_ ctx.Ctx, id asset.TokenId) (*asset.Token, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	t, ok := im.tokens[normId(id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (im *memoryAssetRepo) UpdateOwner(_ ctx.Ctx, id asset.TokenId, from, to domain.Address) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	id = normId(id)
	t, ok := im.tokens[id]
	if !ok || !t.Owner.Equals(from) {
		return domain.ErrNotFound
	}
	t.Owner = to.ToLower()
	im.tokens[id] = t
	return nil
}

func (im *memoryAssetRepo) CountByOwner(_ ctx.Ctx, contract, owner domain.Address) (int, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	cnt := 0
	for id, t := range im.tokens {
		if id.Contract.Equals(contract) && t.Owner.Equals(owner) {
			cnt++
		}
	}
	return cnt, nil
}

func (im *memoryAssetRepo) UpsertApproval(_ ctx.Ctx, approval *asset.Approval) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	k := approvalKey{approval.Contract.ToLower(), approval.Owner.ToLower(), approval.Operator.ToLower()}
	im.approvals[k] = approval.Approved
	return nil
}

func (im *memoryAssetRepo) IsApproved(_ ctx.Ctx, contract, owner, operator domain.Address) (bool, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.approvals[approvalKey{contract.ToLower(), owner.ToLower(), operator.ToLower()}], nil
}
