package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/regadio/regadio-api/internal/config"
)

// deadRedis returns a client whose address never answers, for exercising the
// branches that run before or instead of a Redis round trip.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestPublicCacheDisabledIsPassthrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := PublicCache(config.CacheConfig{Enabled: false}, nil)(func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	})
	assert.NoError(t, handler(c))
	assert.Equal(t, "fresh", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestRateLimitDisabledIsPassthrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RateLimit(config.RateLimitConfig{Enabled: false}, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicCacheSkipsAuthenticatedRequests(t *testing.T) {
	// a bearer request can see drafts, so its response must never touch the
	// cache; the bypass happens before any Redis call
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := PublicCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}, deadRedis())(func(c echo.Context) error {
		reached = true
		return c.String(http.StatusOK, "privileged listing")
	})
	assert.NoError(t, handler(c))
	assert.True(t, reached)
	assert.Equal(t, "privileged listing", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPublicCacheSkipsNonGET(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/news", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := PublicCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}, deadRedis())(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusCreated)
	})
	assert.NoError(t, handler(c))
	assert.True(t, reached)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPublicCacheMissServesFresh(t *testing.T) {
	// an unreachable Redis degrades every anonymous GET to a miss; the
	// handler still answers and the response is marked accordingly
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := PublicCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}, deadRedis())(func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh listing")
	})
	assert.NoError(t, handler(c))
	assert.Equal(t, "fresh listing", rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestRateLimitSubSecondWindowFailsOpen(t *testing.T) {
	// a hand-built sub-second window must not break the credential routes:
	// the window arithmetic stays valid and a dead Redis fails open
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cfg := config.RateLimitConfig{Enabled: true, Limit: 1, Window: 500 * time.Millisecond, Prefix: "rl"}
	reached := false
	var err error
	assert.NotPanics(t, func() {
		err = RateLimit(cfg, deadRedis())(func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		})(c)
	})
	assert.NoError(t, err)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheBusterNilSafe(t *testing.T) {
	// a nil buster is the disabled configuration; Bust must be a no-op
	var b *CacheBuster
	assert.NotPanics(t, func() { b.Bust(nil) })
	assert.Nil(t, NewCacheBuster(config.CacheConfig{Enabled: false}, nil))
}
