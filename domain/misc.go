package domain

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// Address is an account or contract address. Compare with Equals or store ToLower.
type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

// IsZero is true for the empty string and for the 0x0 address
func (a Address) IsZero() bool {
	return a.IsEmpty() || a.Equals(EmptyAddress)
}

func (a Address) IsValid() bool {
	return common.IsHexAddress(string(a))
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// Table is a mongo collection name
type Table string

const (
	TableListings       Table = "marketplace_listings"
	TableMarketEvents   Table = "marketplace_events"
	TableCounters       Table = "counters"
	TableAssetTokens    Table = "asset_tokens"
	TableAssetApprovals Table = "asset_approvals"
	TableBankBalances   Table = "bank_balances"
	TableTrackerStates  Table = "tracker_states"
)

// TokenId is a decimal token id within one asset contract
type TokenId string

func (i TokenId) String() string {
	return string(i)
}

// ToTokenId formats a sequential id
func ToTokenId(n int64) TokenId {
	return TokenId(strconv.FormatInt(n, 10))
}
