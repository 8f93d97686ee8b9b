package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/regadio/regadio-api/internal/auth"
	"github.com/regadio/regadio-api/internal/handler"
	"github.com/regadio/regadio-api/internal/middleware"
)

// RegisterSystem registers the unauthenticated service routes: the health
// check used by load balancers and the root banner.
func RegisterSystem(e *echo.Echo) {
	e.GET("/health", handler.Health)
	e.GET("/", handler.Root)
}

// RegisterAuth registers the authentication routes under /api/auth.  The
// limiter middleware wraps the credential endpoints to slow down guessing;
// /me is the only route behind the JWT gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login, limiter)
	g.POST("/register", a.Register, limiter)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterNews registers the news routes under /api/news.  Reads are public
// with OptionalJWT so privileged callers can widen visibility; the cache
// middleware only ever stores anonymous responses.  Mutations sit behind the
// access-control gate: a valid session plus the required permission.
func RegisterNews(e *echo.Echo, h *handler.NewsHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/api/news")
	g.GET("", h.List, middleware.OptionalJWT(jwtSecret), cache)
	g.GET("/slug/:slug", h.GetBySlug, cache)
	g.GET("/:id", h.GetByID, middleware.OptionalJWT(jwtSecret))
	g.POST("", h.Create, middleware.JWTAuth(jwtSecret), middleware.RequirePermission(auth.ActionWrite))
	g.PUT("/:id", h.Update, middleware.JWTAuth(jwtSecret), middleware.RequirePermission(auth.ActionWrite))
	g.DELETE("/:id", h.Delete, middleware.JWTAuth(jwtSecret), middleware.RequirePermission(auth.ActionDelete))
}

// RegisterProjects registers the project routes under /api/projects,
// including the gallery sub-resource.
func RegisterProjects(e *echo.Echo, h *handler.ProjectHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/api/projects")
	g.GET("", h.List, middleware.OptionalJWT(jwtSecret), cache)
	g.GET("/:id", h.GetByID, middleware.OptionalJWT(jwtSecret))
	g.GET("/:id/images", h.Images, middleware.OptionalJWT(jwtSecret))
	g.POST("", h.Create, middleware.JWTAuth(jwtSecret), middleware.RequirePermission(auth.ActionWrite))
	g.PUT("/:id", h.Update, middleware.JWTAuth(jwtSecret), middleware.RequirePermission(auth.ActionWrite))
	g.PUT("/:id/images", h.ReplaceImages, middleware.JWTAuth(jwtSecret), middleware.RequirePermission(auth.ActionWrite))
	g.DELETE("/:id", h.Delete, middleware.JWTAuth(jwtSecret), middleware.RequirePermission(auth.ActionDelete))
}
