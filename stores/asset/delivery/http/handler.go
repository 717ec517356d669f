package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
	"github.com/x-xyz/marketplace/middleware"
)

type handler struct {
	directory asset.Directory
}

// New registers the asset routes, collection reads go through cacheMiddleware
func New(e *echo.Echo, directory asset.Directory, authMiddleware, cacheMiddleware echo.MiddlewareFunc) {
	h := &handler{
		directory: directory,
	}

	e.GET("/assets", h.list, cacheMiddleware)

	g := e.Group("/assets/:contract", middleware.IsValidAddress("contract"))
	g.GET("", h.get, cacheMiddleware)
	g.POST("/mint", h.mint, authMiddleware)
	g.POST("/approval", h.setApprovalForAll, authMiddleware)
	g.GET("/tokens/:tokenId", h.getToken)
	g.GET("/balances/:owner", h.balanceOf, middleware.IsValidAddress("owner"))
	g.GET("/approval/:owner/:operator", h.isApprovedForAll, middleware.IsValidAddress("owner"), middleware.IsValidAddress("operator"))
}

type collectionInfo struct {
	Address    domain.Address `json:"address"`
	Name       string         `json:"name"`
	Symbol     string         `json:"symbol"`
	TokenCount int64          `json:"tokenCount"`
}

func (h *handler) info(c ctx.Ctx, r asset.Registry) (*collectionInfo, error) {
	count, err := r.TokenCount(c)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "contract": r.Contract()}).Error("failed to registry.TokenCount")
		return nil, err
	}
	return &collectionInfo{
		Address:    r.Contract(),
		Name:       r.Name(),
		Symbol:     r.Symbol(),
		TokenCount: count,
	}, nil
}

func (h *handler) registry(c echo.Context) (asset.Registry, error) {
	return h.directory.Get(domain.Address(c.Param("contract")))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res := []*collectionInfo{}
	for _, r := range h.directory.List() {
		info, err := h.info(ctx, r)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
		}
		res = append(res, info)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	r, err := h.registry(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	}

	info, err := h.info(ctx, r)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, info)
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		TokenUri string `json:"tokenUri"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	r, err := h.registry(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	}

	tokenId, err := r.Mint(ctx, caller, p.TokenUri)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "contract": r.Contract(), "owner": caller}).Error("failed to registry.Mint")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		TokenId domain.TokenId `json:"tokenId"`
	}{tokenId}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) setApprovalForAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Operator domain.Address `json:"operator" validate:"required,address"`
		Approved bool           `json:"approved"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	r, err := h.registry(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	}

	if err := r.SetApprovalForAll(ctx, caller, p.Operator, p.Approved); err != nil {
		ctx.WithFields(log.Fields{"err": err, "owner": caller, "operator": p.Operator}).Error("failed to registry.SetApprovalForAll")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) getToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	tokenId := domain.TokenId(c.Param("tokenId"))

	r, err := h.registry(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	}

	owner, err := r.OwnerOf(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	uri, err := r.TokenURI(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := asset.Token{
		Contract: r.Contract(),
		TokenId:  tokenId,
		Owner:    owner,
		TokenUri: uri,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) balanceOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	r, err := h.registry(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	}

	balance, err := r.BalanceOf(ctx, domain.Address(c.Param("owner")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Balance int `json:"balance"`
	}{balance}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) isApprovedForAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	r, err := h.registry(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	}

	approved, err := r.IsApprovedForAll(ctx, domain.Address(c.Param("owner")), domain.Address(c.Param("operator")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Approved bool `json:"approved"`
	}{approved}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
