package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root returns a short service banner listing the API groups.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Regadio African Cities API",
		"version": "1.0.0",
		"endpoints": echo.Map{
			"auth":     "/api/auth",
			"news":     "/api/news",
			"projects": "/api/projects",
		},
	})
}
