package middleware

import (
	"bufio"
	"bytes"
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/service/cache"
	"github.com/x-xyz/marketplace/service/cache/provider"
)

const (
	// HeaderXCache tells whether a response came from the http cache
	HeaderXCache = "X-Cache"

	cacheHit  = "HIT"
	cacheMiss = "MISS"
)

var (
	cacheMiddlewareProvider provider.Provider

	cacheMiddlewarePfx = "httpCacheMiddleware"

	once = sync.Once{}
)

// SetupCache sets the provider backing CacheHttp, only the first call takes effect
func SetupCache(p provider.Provider) {
	once.Do(func() {
		cacheMiddlewareProvider = p
	})
}

// CacheConfig configures CacheHttpWithConfig
type CacheConfig struct {
	Ttl time.Duration
	// Skipper bypasses the cache, requests carrying credentials are always skipped
	Skipper middleware.Skipper
}

// cachedResponse is what gets stored per url
type cachedResponse struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

type bodyDumpResponseWriter struct {
	statusCode int
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpResponseWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.Writer.Write(b)
}

func (w *bodyDumpResponseWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

// canonicalURL orders query values so that ?b=2&a=1 and ?a=1&b=2 share a key
func canonicalURL(u *url.URL) string {
	params := u.Query()
	for _, values := range params {
		sort.Strings(values)
	}
	return u.Path + "?" + params.Encode()
}

func generateKey(URL string) string {
	hash := fnv.New64a()
	hash.Write([]byte(URL))

	return strconv.FormatUint(hash.Sum64(), 36)
}

func hasCredentials(r *http.Request) bool {
	return r.Header.Get(echo.HeaderAuthorization) != ""
}

// CacheHttp serves successful GET responses from cache for ttl
func CacheHttp(ttl time.Duration) echo.MiddlewareFunc {
	return CacheHttpWithConfig(CacheConfig{Ttl: ttl})
}

// CacheHttpWithConfig is CacheHttp with a skipper
func CacheHttpWithConfig(config CacheConfig) echo.MiddlewareFunc {
	if cacheMiddlewareProvider == nil {
		panic("need SetupCache before using CacheHttp")
	}
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	cacheService := cache.New(cache.ServiceConfig{
		Ttl:   config.Ttl,
		Pfx:   cacheMiddlewarePfx,
		Cache: cacheMiddlewareProvider,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet || hasCredentials(req) || config.Skipper(c) {
				return next(c)
			}

			ctx := c.Get("ctx").(ctx.Ctx)
			key := generateKey(canonicalURL(req.URL))

			cached := cachedResponse{}
			err := cacheService.Get(ctx, key, &cached)
			if err == nil {
				for k, v := range cached.Header {
					c.Response().Header().Set(k, strings.Join(v, ","))
				}
				c.Response().Header().Set(HeaderXCache, cacheHit)
				c.Response().WriteHeader(cached.StatusCode)
				_, err := c.Response().Write(cached.Body)
				return err
			} else if err != cache.ErrNotFound {
				ctx.WithFields(log.Fields{
					"err": err,
					"key": key,
				}).Error("failed to cacheService.Get")
			}

			c.Response().Header().Set(HeaderXCache, cacheMiss)
			resBody := new(bytes.Buffer)
			writer := &bodyDumpResponseWriter{
				Writer:         io.MultiWriter(c.Response().Writer, resBody),
				ResponseWriter: c.Response().Writer,
			}
			c.Response().Writer = writer
			if err := next(c); err != nil {
				c.Error(err)
			}

			if writer.statusCode != http.StatusOK {
				return nil
			}
			header := writer.Header().Clone()
			header.Del(HeaderXCache)
			header.Del(echo.HeaderXRequestID)
			if err := cacheService.Set(ctx, key, cachedResponse{
				StatusCode: writer.statusCode,
				Body:       resBody.Bytes(),
				Header:     header,
			}); err != nil {
				ctx.WithFields(log.Fields{
					"err": err,
					"key": key,
				}).Error("failed to cacheService.Set")
			}
			return nil
		}
	}
}
