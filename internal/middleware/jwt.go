package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/regadio/regadio-api/internal/utils"
)

// Context keys set by the auth middleware and read by handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that requires a valid Bearer session
// token and injects the token's identity claims into the request context.
// A missing header, a malformed token, a bad signature and an expired token
// all produce the same 401 so callers cannot probe which one it was.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}
			setIdentity(c, claims)
			return next(c)
		}
	}
}

// OptionalJWT extracts identity claims when a valid Bearer token is present
// but never rejects the request.  Public read routes use it so privileged
// callers can widen visibility while anonymous callers proceed as guests.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if claims, err := utils.ParseSessionToken(secret, raw); err == nil {
					setIdentity(c, claims)
				}
				// An invalid token on a public route degrades to guest.
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}

func setIdentity(c echo.Context, claims utils.SessionClaims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRole, claims.Role)
}
