package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/regadio/regadio-api/internal/config"
	"github.com/regadio/regadio-api/internal/handler"
	"github.com/regadio/regadio-api/internal/middleware"
	"github.com/regadio/regadio-api/internal/queue"
	"github.com/regadio/regadio-api/internal/repository"
	"github.com/regadio/regadio-api/internal/router"
	"github.com/regadio/regadio-api/internal/utils"
)

const testSecret = "handler-test-secret"

// testAPI is a fully wired server over the in-memory stores, with caching,
// rate limiting and the event broker all disabled.
type testAPI struct {
	e        *echo.Echo
	users    *repository.MemoryUserStore
	news     *repository.MemoryNewsStore
	projects *repository.MemoryProjectStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := config.Config{
		Env:          "test",
		JWTSecret:    testSecret,
		TokenTTLDays: 7,
		BcryptCost:   4,
	}

	users := repository.NewMemoryUserStore()
	news := repository.NewMemoryNewsStore()
	projects := repository.NewMemoryProjectStore()

	events := queue.NewPublisher("")
	buster := middleware.NewCacheBuster(config.CacheConfig{}, nil)
	cache := middleware.PublicCache(config.CacheConfig{}, nil)
	limiter := middleware.RateLimit(config.RateLimitConfig{}, nil)

	e := echo.New()
	router.RegisterSystem(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret, limiter)
	router.RegisterNews(e, handler.NewNewsHandler(cfg, news, events, buster), cfg.JWTSecret, cache)
	router.RegisterProjects(e, handler.NewProjectHandler(cfg, projects, events, buster), cfg.JWTSecret, cache)

	return &testAPI{e: e, users: users, news: news, projects: projects}
}

// do performs a request against the wired server.  An empty token means an
// anonymous request; a non-nil body is sent as JSON.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// tokenFor seeds a user with the given role and mints a session token.
func (a *testAPI) tokenFor(t *testing.T, email, role string) string {
	t.Helper()
	id, err := a.users.Create(context.Background(), email, "Test "+role, "pw123456", role, 4)
	require.NoError(t, err)
	tok, err := utils.NewSessionToken(testSecret, id, email, role, 7)
	require.NoError(t, err)
	return tok.Token
}

// decode unmarshals a JSON response body into a map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// decodeList unmarshals a JSON array response body.
func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
