package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/validator"
	"github.com/x-xyz/marketplace/domain"
	paymentHttp "github.com/x-xyz/marketplace/stores/payment/delivery/http"
	"github.com/x-xyz/marketplace/stores/payment/repository"
	"github.com/x-xyz/marketplace/stores/payment/usecase"
)

const (
	admin = "0x90f79bf6eb2c4f870365e785982e1f101e93b906"
	alice = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
)

type handlerSuite struct {
	suite.Suite

	e *echo.Echo
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(validator.New())
	s.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", ctx.Background())
			return next(c)
		}
	})

	fakeAuth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("address", domain.Address(c.Request().Header.Get("X-Caller")))
			return next(c)
		}
	}
	fakeAdmin := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !domain.Address(admin).Equals(c.Get("address").(domain.Address)) {
				return c.NoContent(http.StatusForbidden)
			}
			return next(c)
		}
	}
	paymentHttp.New(s.e, usecase.New(&usecase.BankCfg{Repo: repository.NewMemoryBalanceRepo()}), fakeAuth, fakeAdmin)
}

func (s *handlerSuite) do(method, path, caller, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Caller", caller)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *handlerSuite) TestDeposit() {
	rec := s.do(http.MethodGet, "/balances/"+alice, "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"success","data":{"account":"`+alice+`","amount":"0","displayAmount":"0"}}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/balances/"+alice+"/deposit", admin, `{"amount":"2020000000000000000"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"success","data":{"account":"`+alice+`","amount":"2020000000000000000","displayAmount":"2.02"}}`, rec.Body.String())
}

func (s *handlerSuite) TestDepositRejected() {
	rec := s.do(http.MethodPost, "/balances/"+alice+"/deposit", alice, `{"amount":"1"}`)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/balances/"+alice+"/deposit", admin, `{"amount":"-1"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/balances/"+alice+"/deposit", admin, `{"amount":"1.5"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/balances/nope", "", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}
