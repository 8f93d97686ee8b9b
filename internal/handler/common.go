package handler // handler defines the HTTP handlers for the API

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/regadio/regadio-api/internal/auth"
	"github.com/regadio/regadio-api/internal/middleware"
	"github.com/regadio/regadio-api/internal/queue"
)

// principal is the identity resolved from a session token, as stored in the
// request context by the auth middleware.
type principal struct {
	ID    uint64
	Email string
	Role  string
}

// currentPrincipal reads the identity from the context.  ok is false for
// anonymous requests (public routes behind OptionalJWT).
func currentPrincipal(c echo.Context) (principal, bool) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok {
		return principal{}, false
	}
	p := principal{ID: id}
	if v, ok := c.Get(middleware.CtxEmail).(string); ok {
		p.Email = v
	}
	if v, ok := c.Get(middleware.CtxRole).(string); ok {
		p.Role = v
	}
	return p, true
}

// privileged reports whether the caller may see unpublished content.  The
// bar is the write permission: editors and admins qualify, viewers and
// anonymous callers do not.
func privileged(c echo.Context) bool {
	p, ok := currentPrincipal(c)
	return ok && auth.HasPermission(p.Role, auth.ActionWrite)
}

// parseID parses the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// dbTimeout bounds a handler's persistence work to five seconds.
func dbTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// internalError logs the underlying cause and returns the generic 500 body;
// persistence errors never leak into responses.
func internalError(c echo.Context, err error) error {
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
}

// emitEvent publishes a content event without blocking the request.  The
// mutation already committed; a broker failure is logged by the publisher
// and otherwise ignored.
func emitEvent(pub *queue.Publisher, ev queue.ContentEvent) {
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pub.Publish(ctx, ev)
	}()
}
