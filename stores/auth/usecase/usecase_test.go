package usecase_test

import (
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/ethereum"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/stores/auth/usecase"
)

const msg = "Sign in to the marketplace"

func TestSignAndParseToken(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret", msg)
	tkn, err := u.SignToken(ctx, "0xABCDEF0000000000000000000000000000000001")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "0xabcdef0000000000000000000000000000000001", ads)
}

func TestParseTokenWrongSecret(t *testing.T) {
	ctx := ctx.Background()
	tkn, err := usecase.New("jwt-secret", msg).SignToken(ctx, "0xabcdef0000000000000000000000000000000001")
	require.NoError(t, err)

	_, err = usecase.New("another-secret", msg).ParseToken(ctx, tkn)
	assert.Error(t, err)
}

func TestParseTokenRejectsNone(t *testing.T) {
	ctx := ctx.Background()
	token := jwt.NewWithClaims(jwt.SigningMethodNone, domain.JwtCustomClaims{Address: "0xabc"})
	str, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = usecase.New("jwt-secret", msg).ParseToken(ctx, str)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret", msg)
	assert.Equal(t, msg, u.SignatureMessage())

	key, addr, err := ethereum.GenerateKey()
	require.NoError(t, err)
	sig, err := ethereum.PersonalSign([]byte(msg), key)
	require.NoError(t, err)

	tkn, err := u.Login(ctx, domain.Address(addr.Hex()), sig)
	require.NoError(t, err)

	ads, err := u.ParseToken(ctx, tkn)
	require.NoError(t, err)
	assert.Equal(t, domain.Address(addr.Hex()).ToLowerStr(), ads)
}

func TestLoginWrongSigner(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret", msg)

	key, _, err := ethereum.GenerateKey()
	require.NoError(t, err)
	_, other, err := ethereum.GenerateKey()
	require.NoError(t, err)
	sig, err := ethereum.PersonalSign([]byte(msg), key)
	require.NoError(t, err)

	_, err = u.Login(ctx, domain.Address(other.Hex()), sig)
	assert.Equal(t, domain.ErrInvalidSignature, err)

	_, err = u.Login(ctx, domain.Address(other.Hex()), "0x1234")
	assert.Equal(t, domain.ErrInvalidSignature, err)

	_, err = u.Login(ctx, "not-an-address", sig)
	assert.Equal(t, domain.ErrInvalidAddress, err)
}
