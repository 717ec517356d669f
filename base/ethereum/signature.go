package ethereum

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// GenerateKey returns a fresh secp256k1 key pair and the address it controls
func GenerateKey() (*ecdsa.PrivateKey, common.Address, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, common.Address{}, err
	}
	return privateKey, crypto.PubkeyToAddress(privateKey.PublicKey), nil
}

// PersonalSign signs message the way wallets do for personal_sign, V in {27, 28}
func PersonalSign(message []byte, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// ValidateMsgSignature reports whether signature is signer's personal_sign of message
func ValidateMsgSignature(message []byte, signature, signer string) (bool, error) {
	if !common.IsHexAddress(signer) {
		return false, fmt.Errorf("invalid signer address %q", signer)
	}
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false, err
	}
	recovered, err := ecRecover(accounts.TextHash(message), sig)
	if err != nil {
		return false, err
	}
	return bytes.Equal(common.HexToAddress(signer).Bytes(), recovered.Bytes()), nil
}

// ecRecover returns the address for the account that was used to create the signature.
// Mirrors go-ethereum's internal personal_ecRecover.
func ecRecover(hash []byte, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes long", crypto.SignatureLength)
	}

	// do not mutate the caller's slice
	sig = append([]byte(nil), sig...)

	// support both versions of `eth_sign` responses
	if sig[crypto.RecoveryIDOffset] < 27 {
		sig[crypto.RecoveryIDOffset] += 27
	}
	if sig[crypto.RecoveryIDOffset] != 27 && sig[crypto.RecoveryIDOffset] != 28 {
		return common.Address{}, fmt.Errorf("invalid Ethereum signature (V is not 27 or 28)")
	}
	sig[crypto.RecoveryIDOffset] -= 27

	rpk, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*rpk), nil
}
