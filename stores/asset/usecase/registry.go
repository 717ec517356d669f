package usecase

import (
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
	"github.com/x-xyz/marketplace/domain/keys"
)

type RegistryCfg struct {
	Collection  asset.Collection
	Repo        asset.Repo
	CounterRepo domain.CounterRepo
	Transactor  domain.Transactor
}

type impl struct {
	collection asset.Collection
	repo       asset.Repo
	counter    domain.CounterRepo
	tx         domain.Transactor
}

// New builds the registry of one collection
func New(cfg *RegistryCfg) asset.Registry {
	tx := cfg.Transactor
	if tx == nil {
		tx = domain.NoopTransactor{}
	}
	c := cfg.Collection
	c.Address = c.Address.ToLower()
	return &impl{
		collection: c,
		repo:       cfg.Repo,
		counter:    cfg.CounterRepo,
		tx:         tx,
	}
}

func (im *impl) counterName() string {
	return keys.RedisKey("asset", string(im.collection.Address))
}

func (im *impl) id(tokenId domain.TokenId) asset.TokenId {
	return asset.TokenId{Contract: im.collection.Address, TokenId: tokenId}
}

func (im *impl) Contract() domain.Address {
	return im.collection.Address
}

func (im *impl) Name() string {
	return im.collection.Name
}

func (im *impl) Symbol() string {
	return im.collection.Symbol
}

func (im *impl) Mint(c ctx.Ctx, owner domain.Address, tokenUri string) (domain.TokenId, error) {
	if owner.IsZero() {
		return "", asset.ErrMintToZero
	}

	var tokenId domain.TokenId
	err := im.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		n, err := im.counter.Next(c, im.counterName())
		if err != nil {
			c.WithField("err", err).Error("counter.Next failed")
			return err
		}
		tokenId = domain.ToTokenId(n)

		token := &asset.Token{
			Contract: im.collection.Address,
			TokenId:  tokenId,
			Owner:    owner.ToLower(),
			TokenUri: tokenUri,
		}
		if err := im.repo.InsertToken(c, token); err != nil {
			c.WithFields(log.Fields{"err": err, "token": token}).Error("repo.InsertToken failed")
			if err := im.counter.Release(c, im.counterName(), n); err != nil {
				c.WithField("err", err).Error("counter.Release failed")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	c.WithFields(log.Fields{
		"contract": im.collection.Address,
		"tokenId":  tokenId,
		"owner":    owner,
	}).Info("token minted")
	return tokenId, nil
}

func (im *impl) findToken(c ctx.Ctx, tokenId domain.TokenId) (*asset.Token, error) {
	token, err := im.repo.FindToken(c, im.id(tokenId))
	if err == domain.ErrNotFound {
		return nil, asset.ErrTokenNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "tokenId": tokenId}).Error("repo.FindToken failed")
		return nil, err
	}
	return token, nil
}

func (im *impl) OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error) {
	token, err := im.findToken(c, tokenId)
	if err != nil {
		return "", err
	}
	return token.Owner, nil
}

func (im *impl) BalanceOf(c ctx.Ctx, owner domain.Address) (int, error) {
	return im.repo.CountByOwner(c, im.collection.Address, owner)
}

func (im *impl) TokenURI(c ctx.Ctx, tokenId domain.TokenId) (string, error) {
	token, err := im.findToken(c, tokenId)
	if err != nil {
		return "", err
	}
	return token.TokenUri, nil
}

func (im *impl) TokenCount(c ctx.Ctx) (int64, error) {
	return im.counter.Current(c, im.counterName())
}

func (im *impl) SetApprovalForAll(c ctx.Ctx, owner, operator domain.Address, approved bool) error {
	if owner.Equals(operator) {
		return asset.ErrApproveToCaller
	}
	return im.repo.UpsertApproval(c, &asset.Approval{
		Contract: im.collection.Address,
		Owner:    owner,
		Operator: operator,
		Approved: approved,
	})
}

func (im *impl) IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) (bool, error) {
	return im.repo.IsApproved(c, im.collection.Address, owner, operator)
}

// TransferFrom checks in ERC-721 order: token exists, operator may move it,
// from is the owner, to is set
func (im *impl) TransferFrom(c ctx.Ctx, operator, from, to domain.Address, tokenId domain.TokenId) error {
	token, err := im.findToken(c, tokenId)
	if err != nil {
		return err
	}

	if !operator.Equals(token.Owner) {
		approved, err := im.repo.IsApproved(c, im.collection.Address, token.Owner, operator)
		if err != nil {
			c.WithField("err", err).Error("repo.IsApproved failed")
			return err
		}
		if !approved {
			return asset.ErrNotApproved
		}
	}

	if !from.Equals(token.Owner) {
		return asset.ErrNotOwner
	}
	if to.IsZero() {
		return asset.ErrTransferToZero
	}

	if err := im.repo.UpdateOwner(c, im.id(tokenId), from, to); err == domain.ErrNotFound {
		// owner changed since the read above
		return asset.ErrNotOwner
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"tokenId": tokenId,
			"from":    from,
			"to":      to,
		}).Error("repo.UpdateOwner failed")
		return err
	}
	return nil
}
