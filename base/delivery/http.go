package delivery

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/payment"
	"github.com/x-xyz/marketplace/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

var kindStatus = map[marketplace.ErrorKind]int{
	marketplace.KindInvalidPrice:        http.StatusBadRequest,
	marketplace.KindInsufficientPayment: http.StatusBadRequest,
	marketplace.KindItemNotFound:        http.StatusNotFound,
	marketplace.KindAlreadySold:         http.StatusConflict,
	marketplace.KindTransferRejected:    http.StatusUnprocessableEntity,
	marketplace.KindPaymentRejected:     http.StatusUnprocessableEntity,
}

// StatusOf maps a usecase error to the http status it is reported with
func StatusOf(err error) int {
	var le *marketplace.Error
	if errors.As(err, &le) {
		if s, ok := kindStatus[le.Kind]; ok {
			return s
		}
	}
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrBadParamInput),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, asset.ErrMintToZero),
		errors.Is(err, asset.ErrApproveToCaller):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, query.ErrNotFound),
		errors.Is(err, asset.ErrTokenNotFound),
		errors.Is(err, asset.ErrUnknownContract):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, payment.ErrInsufficientFunds),
		errors.Is(err, asset.ErrNotOwner),
		errors.Is(err, asset.ErrNotApproved),
		errors.Is(err, asset.ErrTransferToZero):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// MakeJsonResp wraps data in a JsonResponse. An error as data picks its own
// status, ledger errors are rendered as {kind, reason}.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = StatusOf(err)
		var le *marketplace.Error
		if errors.As(err, &le) {
			data = le
		} else if status == http.StatusInternalServerError {
			data = domain.ErrInternalServerError.Error()
		} else {
			data = err.Error()
		}
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
