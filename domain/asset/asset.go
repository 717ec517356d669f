package asset

import (
	"errors"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

var (
	ErrTokenNotFound   = errors.New("ERC721: invalid token ID")
	ErrNotOwner        = errors.New("ERC721: transfer from incorrect owner")
	ErrNotApproved     = errors.New("ERC721: caller is not token owner nor approved")
	ErrTransferToZero  = errors.New("ERC721: transfer to the zero address")
	ErrMintToZero      = errors.New("ERC721: mint to the zero address")
	ErrApproveToCaller = errors.New("ERC721: approve to caller")
	ErrUnknownContract = errors.New("unknown asset contract")
)

// Collection describes one registry instance
type Collection struct {
	Address domain.Address `json:"address" mapstructure:"address"`
	Name    string         `json:"name" mapstructure:"name"`
	Symbol  string         `json:"symbol" mapstructure:"symbol"`
}

type Token struct {
	Contract domain.Address `json:"contract" bson:"contract"`
	TokenId  domain.TokenId `json:"tokenId" bson:"tokenId"`
	Owner    domain.Address `json:"owner" bson:"owner"`
	TokenUri string         `json:"tokenUri" bson:"tokenUri"`
}

func (t *Token) ToId() TokenId {
	return TokenId{
		Contract: t.Contract,
		TokenId:  t.TokenId,
	}
}

type TokenId struct {
	Contract domain.Address `json:"contract" bson:"contract"`
	TokenId  domain.TokenId `json:"tokenId" bson:"tokenId"`
}

type Approval struct {
	Contract domain.Address `json:"contract" bson:"contract"`
	Owner    domain.Address `json:"owner" bson:"owner"`
	Operator domain.Address `json:"operator" bson:"operator"`
	Approved bool           `json:"approved" bson:"approved"`
}

// Repo stores tokens and operator approvals of every collection.
// Addresses are stored lower cased.
type Repo interface {
	InsertToken(c ctx.Ctx, token *Token) error
	// FindToken returns domain.ErrNotFound when the token was never minted
	FindToken(c ctx.Ctx, id TokenId) (*Token, error)
	// UpdateOwner moves id from -> to, domain.ErrNotFound when from is not the owner
	UpdateOwner(c ctx.Ctx, id TokenId, from, to domain.Address) error
	CountByOwner(c ctx.Ctx, contract, owner domain.Address) (int, error)
	UpsertApproval(c ctx.Ctx, approval *Approval) error
	IsApproved(c ctx.Ctx, contract, owner, operator domain.Address) (bool, error)
}

// Registry is a non-fungible token registry with ERC-721 transfer rules
type Registry interface {
	Contract() domain.Address
	Name() string
	Symbol() string

	// Mint creates the next token for owner, ids start at 1
	Mint(c ctx.Ctx, owner domain.Address, tokenUri string) (domain.TokenId, error)
	OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error)
	BalanceOf(c ctx.Ctx, owner domain.Address) (int, error)
	TokenURI(c ctx.Ctx, tokenId domain.TokenId) (string, error)
	TokenCount(c ctx.Ctx) (int64, error)

	SetApprovalForAll(c ctx.Ctx, owner, operator domain.Address, approved bool) error
	IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) (bool, error)

	// TransferFrom moves tokenId from -> to on behalf of operator, who must be
	// the owner or approved for all of the owner's tokens
	TransferFrom(c ctx.Ctx, operator, from, to domain.Address, tokenId domain.TokenId) error
}

// Directory resolves a contract address to its registry
type Directory interface {
	// Get returns ErrUnknownContract for unregistered addresses
	Get(contract domain.Address) (Registry, error)
	List() []Registry
}
