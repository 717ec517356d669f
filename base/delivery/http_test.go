package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{marketplace.ErrInvalidPrice, http.StatusBadRequest},
		{marketplace.ErrInsufficientPayment, http.StatusBadRequest},
		{marketplace.ErrItemNotFound, http.StatusNotFound},
		{marketplace.ErrAlreadySold, http.StatusConflict},
		{marketplace.TransferRejected(asset.ErrNotApproved), http.StatusUnprocessableEntity},
		{xerrors.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.status, StatusOf(c.err), c.err.Error())
	}
}

func TestMakeJsonRespLedgerError(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	req.NoError(MakeJsonResp(c, http.StatusOK, marketplace.ErrAlreadySold))
	req.Equal(http.StatusConflict, rec.Code)

	body := struct {
		Status string `json:"status"`
		Data   struct {
			Kind   string `json:"kind"`
			Reason string `json:"reason"`
		} `json:"data"`
	}{}
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.Equal("fail", body.Status)
	req.Equal("AlreadySold", body.Data.Kind)
	req.Equal("Item has already been sold.", body.Data.Reason)
}

func TestMakeJsonRespSuccess(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	req.NoError(MakeJsonResp(c, http.StatusOK, map[string]string{"a": "b"}))
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"status":"success","data":{"a":"b"}}`, rec.Body.String())
}
