package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/regadio/regadio-api/internal/config"
)

// bodyCapture buffers the response body while forwarding it to the client so
// a successful payload can be stored after the handler returns.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func cacheKey(prefix string, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// PublicCache caches anonymous GET responses on the public content routes.
// Requests carrying an Authorization header bypass the cache entirely: a
// privileged listing can include drafts and must never be served to, or
// recorded for, the public.  A nil Redis client disables caching.
func PublicCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet || c.Request().Header.Get("Authorization") != "" {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)
			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK {
				_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}

// CacheBuster invalidates the public content cache after a mutation.  All
// cached entries share one key prefix, so a bust is a prefix scan + delete.
// The zero value and a nil receiver are safe no-ops.
type CacheBuster struct {
	rdb    *redis.Client
	prefix string
}

// NewCacheBuster returns a buster for the given cache config, or nil when
// caching is disabled.
func NewCacheBuster(cfg config.CacheConfig, rdb *redis.Client) *CacheBuster {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &CacheBuster{rdb: rdb, prefix: cfg.Prefix}
}

// Bust removes every cached public response.  Content mutations are rare
// compared to reads, so dropping the whole namespace is cheaper than
// tracking which listing a given item appears in.
func (b *CacheBuster) Bust(ctx context.Context) {
	if b == nil || b.rdb == nil {
		return
	}
	iter := b.rdb.Scan(ctx, 0, b.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		_ = b.rdb.Del(ctx, iter.Val()).Err()
	}
}
