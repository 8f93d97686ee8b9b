package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regadio/regadio-api/internal/utils"
)

const testSecret = "middleware-test-secret"

func invoke(mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, echo.Context, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, c, reached
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _, reached := invoke(JWTAuth(testSecret), "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No token provided")
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	rec, _, reached := invoke(JWTAuth(testSecret), "Token abc")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _, reached := invoke(JWTAuth(testSecret), "Bearer not-a-token")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 9, "ed@example.com", "editor", 7)
	require.NoError(t, err)

	rec, c, reached := invoke(JWTAuth(testSecret), "Bearer "+tok.Token)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(9), c.Get(CtxUserID))
	assert.Equal(t, "ed@example.com", c.Get(CtxEmail))
	assert.Equal(t, "editor", c.Get(CtxRole))
}

func TestOptionalJWTAnonymous(t *testing.T) {
	rec, c, reached := invoke(OptionalJWT(testSecret), "")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get(CtxRole))
}

func TestOptionalJWTInvalidTokenDegradesToGuest(t *testing.T) {
	rec, c, reached := invoke(OptionalJWT(testSecret), "Bearer garbage")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get(CtxRole))
}

func TestOptionalJWTValidToken(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 3, "v@example.com", "viewer", 7)
	require.NoError(t, err)

	_, c, reached := invoke(OptionalJWT(testSecret), "Bearer "+tok.Token)
	assert.True(t, reached)
	assert.Equal(t, "viewer", c.Get(CtxRole))
}
