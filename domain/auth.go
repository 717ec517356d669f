package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/marketplace/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// SignatureMessage is the text a wallet signs to log in
	SignatureMessage() string
	// Login verifies signature over SignatureMessage and returns a token for address
	Login(ctx ctx.Ctx, address Address, signature string) (string, error)
	SignToken(ctx ctx.Ctx, address Address) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address string, err error)
}
