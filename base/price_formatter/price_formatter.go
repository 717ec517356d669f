package priceformatter

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of wei digits in one ether
const EtherDecimals = 18

// ToEther converts a wei amount to ether
func ToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals)
}

// FormatEther renders wei as an ether string without trailing zeros, "2.02"
func FormatEther(wei *big.Int) string {
	return ToEther(wei).String()
}

// ParseWei parses a base-10 integer amount of wei
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return v, nil
}

// ParseEther parses an ether amount such as "2.02" into wei.
// Digits beyond wei precision are rejected.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	wei := d.Shift(EtherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("%s has more than %d decimals", s, EtherDecimals)
	}
	return wei.BigInt(), nil
}
