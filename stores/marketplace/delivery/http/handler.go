package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/log"
	priceformatter "github.com/x-xyz/marketplace/base/price_formatter"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

type handler struct {
	uc marketplace.UseCase
}

func New(e *echo.Echo, uc marketplace.UseCase, authMiddleware echo.MiddlewareFunc) {
	h := &handler{
		uc: uc,
	}

	g := e.Group("/marketplace")
	g.GET("", h.info)
	g.POST("/listings", h.listItem, authMiddleware)
	g.GET("/listings/:listingId", h.getListing)
	g.GET("/listings/:listingId/total-price", h.getTotalPrice)
	g.POST("/listings/:listingId/purchase", h.purchaseItem, authMiddleware)
	g.GET("/events", h.events)
}

type listingResp struct {
	*marketplace.Listing
	DisplayPrice      string `json:"displayPrice"`
	TotalPrice        string `json:"totalPrice"`
	DisplayTotalPrice string `json:"displayTotalPrice"`
}

type priceResp struct {
	ListingId    marketplace.ListingId `json:"listingId"`
	TotalPrice   string                `json:"totalPrice"`
	DisplayPrice string                `json:"displayTotalPrice"`
}

// info
//
//	@Summary		Get marketplace info
//	@Description	Escrow address, fee recipient, fee percent and the number of listings
//	@Tags			marketplace
//	@Produce		json
//	@Success		200
//	@Failure		500
//	@Router			/marketplace [get]
func (h *handler) info(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	cnt, err := h.uc.ListingCount(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Address      domain.Address `json:"address"`
		FeeRecipient domain.Address `json:"feeRecipient"`
		FeePercent   uint64         `json:"feePercent"`
		ListingCount int64          `json:"listingCount"`
	}{
		Address:      h.uc.Address(),
		FeeRecipient: h.uc.FeeRecipient(),
		FeePercent:   h.uc.FeePercent(),
		ListingCount: cnt,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// listItem
//
//	@Summary		List an asset
//	@Description	Moves the asset into escrow and creates a listing owned by the caller
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body	http.listItem.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		422
//	@Router			/marketplace/listings [post]
func (h *handler) listItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		AssetContract domain.Address `json:"assetContract" validate:"required,address"`
		AssetId       domain.TokenId `json:"assetId" validate:"required"`
		Price         string         `json:"price" validate:"required,wei"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	price, err := priceformatter.ParseWei(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	id, err := h.uc.ListItem(ctx, p.AssetContract, p.AssetId, price, caller)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "params": p, "caller": caller}).Warn("failed to uc.ListItem")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		ListingId marketplace.ListingId `json:"listingId"`
	}{id}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) listing(c ctx.Ctx, id marketplace.ListingId) (*listingResp, error) {
	l, err := h.uc.GetListing(c, id)
	if err != nil {
		return nil, err
	}
	total, err := h.uc.GetTotalPrice(c, id)
	if err != nil {
		return nil, err
	}
	return &listingResp{
		Listing:           l,
		DisplayPrice:      priceformatter.FormatEther(l.PriceInt()),
		TotalPrice:        total.String(),
		DisplayTotalPrice: priceformatter.FormatEther(total),
	}, nil
}

// getListing
//
//	@Summary	Get a listing
//	@Tags		marketplace
//	@Produce	json
//	@Param		listingId	path		int	true	"listing id"	example(1)
//	@Success	200			{object}	http.listingResp
//	@Failure	404
//	@Router		/marketplace/listings/{listingId} [get]
func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	id := marketplace.ToListingId(c.Param("listingId"))

	res, err := h.listing(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getTotalPrice
//
//	@Summary		Get the total price of a listing
//	@Description	Price plus the marketplace fee, the least a buyer must pay
//	@Tags			marketplace
//	@Produce		json
//	@Param			listingId	path		int	true	"listing id"	example(1)
//	@Success		200			{object}	http.priceResp
//	@Failure		404
//	@Router			/marketplace/listings/{listingId}/total-price [get]
func (h *handler) getTotalPrice(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	id := marketplace.ToListingId(c.Param("listingId"))

	total, err := h.uc.GetTotalPrice(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := priceResp{
		ListingId:    id,
		TotalPrice:   total.String(),
		DisplayPrice: priceformatter.FormatEther(total),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// purchaseItem
//
//	@Summary		Purchase a listing
//	@Description	Pays seller and fee recipient out of amount and transfers the asset to the caller
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			listingId	path		int							true	"listing id"	example(1)
//	@Param			params		body		http.purchaseItem.params	true	"params"
//	@Success		200			{object}	http.listingResp
//	@Failure		400
//	@Failure		404
//	@Failure		409
//	@Failure		422
//	@Router			/marketplace/listings/{listingId}/purchase [post]
func (h *handler) purchaseItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)
	id := marketplace.ToListingId(c.Param("listingId"))

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
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	if err := h.uc.PurchaseItem(ctx, id, amount, caller); err != nil {
		ctx.WithFields(log.Fields{"err": err, "listingId": id, "amount": p.Amount, "caller": caller}).Warn("failed to uc.PurchaseItem")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res, err := h.listing(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// events
//
//	@Summary	List marketplace events
//	@Tags		marketplace
//	@Produce	json
//	@Param		after	query	int	false	"seq to start after"	example(0)
//	@Param		limit	query	int	false	"page size, at most 1000"	example(100)
//	@Success	200		{array}	marketplace.Event
//	@Failure	400
//	@Router		/marketplace/events [get]
func (h *handler) events(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	after, err := parseInt(c.QueryParam("after"), 0)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidNumberFormat.Error())
	}
	limit, err := parseInt(c.QueryParam("limit"), 0)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidNumberFormat.Error())
	}

	evs, err := h.uc.Events(ctx, after, int(limit))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, evs)
}

func parseInt(s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
