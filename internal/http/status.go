package http

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v4"
)

const apiVersion = "1.0.0"

func rootStatusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "operational",
			"version": apiVersion,
		})
	}
}

func apiStatusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"message":   "API is up",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
