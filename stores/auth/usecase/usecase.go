package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/ethereum"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
)

const tokenTTL = 24 * time.Hour

type impl struct {
	jwtSecret    []byte
	signatureMsg string
}

func New(jwtSecret, signatureMsg string) domain.AuthUsecase {
	return &impl{
		jwtSecret:    []byte(jwtSecret),
		signatureMsg: signatureMsg,
	}
}

func (im *impl) SignatureMessage() string {
	return im.signatureMsg
}

func (im *impl) Login(ctx ctx.Ctx, address domain.Address, signature string) (string, error) {
	if !address.IsValid() {
		return "", domain.ErrInvalidAddress
	}

	ok, err := ethereum.ValidateMsgSignature([]byte(im.signatureMsg), signature, address.ToLowerStr())
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Warn("failed to ethereum.ValidateMsgSignature")
		return "", domain.ErrInvalidSignature
	} else if !ok {
		return "", domain.ErrInvalidSignature
	}

	return im.SignToken(ctx, address.ToLower())
}

func (im *impl) SignToken(ctx ctx.Ctx, address domain.Address) (string, error) {
	claims := domain.JwtCustomClaims{
		Address: address.ToLowerStr(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (string, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
		return claims.Address, nil
	}

	return "", domain.ErrForbidden
}
