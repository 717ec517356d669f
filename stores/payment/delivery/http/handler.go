package http

import (
	"math/big"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/log"
	priceformatter "github.com/x-xyz/marketplace/base/price_formatter"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/payment"
	"github.com/x-xyz/marketplace/middleware"
)

type handler struct {
	bank payment.Bank
}

func New(e *echo.Echo, bank payment.Bank, authMiddleware, adminMiddleware echo.MiddlewareFunc) {
	h := &handler{
		bank: bank,
	}

	g := e.Group("/balances/:address", middleware.IsValidAddress("address"))
	g.GET("", h.balanceOf)
	g.POST("/deposit", h.deposit, authMiddleware, adminMiddleware)
}

type balanceResp struct {
	Account       domain.Address `json:"account"`
	Amount        string         `json:"amount"`
	DisplayAmount string         `json:"displayAmount"`
}

func (h *handler) resp(account domain.Address, amount *big.Int) balanceResp {
	return balanceResp{
		Account:       account.ToLower(),
		Amount:        amount.String(),
		DisplayAmount: priceformatter.FormatEther(amount),
	}
}

func (h *handler) balanceOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	account := domain.Address(c.Param("address"))

	amount, err := h.bank.BalanceOf(ctx, account)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "account": account}).Error("failed to bank.BalanceOf")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, h.resp(account, amount))
}

func (h *handler) deposit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	account := domain.Address(c.Param("address"))

	type params struct {
		Amount string `json:"amount" validate:"required,wei"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := priceformatter.ParseWei(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.bank.Deposit(ctx, account, amount); err != nil {
		ctx.WithFields(log.Fields{"err": err, "account": account, "amount": p.Amount}).Error("failed to bank.Deposit")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	balance, err := h.bank.BalanceOf(ctx, account)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, h.resp(account, balance))
}
