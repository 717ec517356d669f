package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain/keys"
	"github.com/x-xyz/marketplace/service/cache/provider"
	"github.com/x-xyz/marketplace/service/cache/provider/primitive"
)

type cacheMiddlewareSuite struct {
	suite.Suite

	provider provider.Provider
}

func (s *cacheMiddlewareSuite) SetupSuite() {
	s.provider = primitive.NewPrimitive("httpCacheMiddleware", 8)
	SetupCache(s.provider)
}

func TestCacheMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(cacheMiddlewareSuite))
}

func (s *cacheMiddlewareSuite) TestCacheMiddleware() {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/assets?b=2&a=1", nil)
	rec := httptest.NewRecorder()
	res := "Hello, World"
	h := func(c echo.Context) error {
		return c.String(http.StatusOK, res)
	}

	c := e.NewContext(req, rec)
	cont := ctx.WithValue(ctx.Background(), "requestID", "test")
	c.Set("ctx", cont)

	if s.NoError(CacheHttp(30 * time.Second)(h)(c)) {
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(res, rec.Body.String())
		s.Equal(cacheMiss, rec.Header().Get(HeaderXCache))
	}

	req2 := httptest.NewRequest(http.MethodGet, "/assets?a=1&b=2", nil)
	rec2 := httptest.NewRecorder()
	h2 := func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, again")
	}
	c2 := e.NewContext(req2, rec2)
	c2.Set("ctx", cont)

	if s.NoError(CacheHttp(30 * time.Second)(h2)(c2)) {
		s.Equal(http.StatusOK, rec2.Code)
		s.Equal(res, rec2.Body.String())
		s.Equal(cacheHit, rec2.Header().Get(HeaderXCache))
	}

	key := generateKey(canonicalURL(req.URL))
	_, _, err := s.provider.Get(cont, keys.RedisKey(cacheMiddlewarePfx, key))
	s.NoError(err)
}

func (s *cacheMiddlewareSuite) TestSkipErrorResponse() {
	e := echo.New()
	cont := ctx.Background()

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("ctx", cont)

	h := func(c echo.Context) error {
		return c.String(http.StatusNotFound, "nope")
	}
	s.NoError(CacheHttp(30 * time.Second)(h)(c))
	s.Equal(http.StatusNotFound, rec.Code)

	_, _, err := s.provider.Get(cont, keys.RedisKey(cacheMiddlewarePfx, generateKey(canonicalURL(req.URL))))
	s.Equal(provider.ErrNotFound, err)
}

func (s *cacheMiddlewareSuite) TestBypass() {
	e := echo.New()
	cont := ctx.Background()
	calls := 0
	h := func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "fresh")
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/assets/bypass", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("ctx", cont)
		s.NoError(CacheHttp(30 * time.Second)(h)(c))
		s.Empty(rec.Header().Get(HeaderXCache))
	}
	s.Equal(2, calls)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/assets/with-token", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer token")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("ctx", cont)
		s.NoError(CacheHttp(30 * time.Second)(h)(c))
		s.Equal("fresh", rec.Body.String())
	}
	s.Equal(4, calls)

	skipAll := CacheHttpWithConfig(CacheConfig{
		Ttl:     30 * time.Second,
		Skipper: func(echo.Context) bool { return true },
	})
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/assets/skipped", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("ctx", cont)
		s.NoError(skipAll(h)(c))
	}
	s.Equal(6, calls)
}
