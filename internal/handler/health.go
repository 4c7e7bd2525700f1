package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is used by load balancers and monitoring to verify that the
// process is serving.  It does not touch storage.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Root answers the bare URL with a liveness banner.
func Root(c echo.Context) error {
	return c.String(http.StatusOK, "Titan is running")
}
