package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
	"github.com/x-xyz/marketplace/service/query"
)

type assetRepoImpl struct {
	q query.Mongo
}

func NewAssetRepo(q query.Mongo) asset.Repo {
	return &assetRepoImpl{q}
}

func tokenSelector(id asset.TokenId) bson.M {
	return bson.M{
		"contract": id.Contract.ToLower(),
		"tokenId":  id.TokenId,
	}
}

func (im *assetRepoImpl) InsertToken(ctx ctx.Ctx, token *asset.Token) error {
	t := *token
	t.Contract = t.Contract.ToLower()
	t.Owner = t.Owner.ToLower()
	if err := im.q.Insert(ctx, domain.TableAssetTokens, t); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"token": t,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *assetRepoImpl) FindToken(ctx ctx.Ctx, id asset.TokenId) (*asset.Token, error) {
	res := &asset.Token{}
	if err := im.q.FindOne(ctx, domain.TableAssetTokens, tokenSelector(id), res); err == query.ErrNotFound {
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

func (im *assetRepoImpl) UpdateOwner(ctx ctx.Ctx, id asset.TokenId, from, to domain.Address) error {
	selector := tokenSelector(id)
	selector["owner"] = from.ToLower()
	if err := im.q.Patch(ctx, domain.TableAssetTokens, selector, bson.M{"owner": to.ToLower()}); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.Patch")
		return err
	}
	return nil
}

func (im *assetRepoImpl) CountByOwner(ctx ctx.Ctx, contract, owner domain.Address) (int, error) {
	selector := bson.M{"contract": contract.ToLower(), "owner": owner.ToLower()}
	cnt, err := im.q.Count(ctx, domain.TableAssetTokens, selector)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.Count")
		return 0, err
	}
	return cnt, nil
}

func approvalSelector(contract, owner, operator domain.Address) bson.M {
	return bson.M{
		"contract": contract.ToLower(),
		"owner":    owner.ToLower(),
		"operator": operator.ToLower(),
	}
}

func (im *assetRepoImpl) UpsertApproval(ctx ctx.Ctx, approval *asset.Approval) error {
	a := asset.Approval{
		Contract: approval.Contract.ToLower(),
		Owner:    approval.Owner.ToLower(),
		Operator: approval.Operator.ToLower(),
		Approved: approval.Approved,
	}
	selector := approvalSelector(a.Contract, a.Owner, a.Operator)
	if err := im.q.Upsert(ctx, domain.TableAssetApprovals, selector, a); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"approval": a,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}

func (im *assetRepoImpl) IsApproved(ctx ctx.Ctx, contract, owner, operator domain.Address) (bool, error) {
	res := asset.Approval{}
	selector := approvalSelector(contract, owner, operator)
	if err := im.q.FindOne(ctx, domain.TableAssetApprovals, selector, &res); err == query.ErrNotFound {
		return false, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("failed to q.FindOne")
		return false, err
	}
	return res.Approved, nil
}

// Indexes the asset tables rely on
func Indexes() map[domain.Table][]query.Index {
	return map[domain.Table][]query.Index{
		domain.TableAssetTokens: {
			{Keys: []string{"contract", "tokenId"}, Unique: true},
			{Keys: []string{"contract", "owner"}},
		},
		domain.TableAssetApprovals: {
			{Keys: []string{"contract", "owner", "operator"}, Unique: true},
		},
	}
}
