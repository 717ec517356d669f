package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
)

type authHandler struct {
	auth domain.AuthUsecase
}

func New(e *echo.Echo, auth domain.AuthUsecase) {
	handler := &authHandler{
		auth: auth,
	}
	g := e.Group("/auth")
	g.POST("/sign", handler.sign)
	g.GET("/message", handler.getMessage)
}

// sign
//
//	@Summary		Log in with a signed message
//	@Description	Verifies a personal-sign signature of /auth/message and returns a bearer token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			params	body	http.sign.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		401
//	@Router			/auth/sign [post]
func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address" validate:"required,address"`
		Signature string         `json:"signature" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if tkn, err := h.auth.Login(ctx, p.Address, p.Signature); err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": p.Address}).Warn("auth.Login failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}

// getMessage
//
//	@Summary	Get the message to sign
//	@Tags		auth
//	@Produce	json
//	@Success	200
//	@Router		/auth/message [get]
func (h *authHandler) getMessage(c echo.Context) error {
	res := struct {
		Msg string `json:"message"`
	}{
		Msg: h.auth.SignatureMessage(),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
