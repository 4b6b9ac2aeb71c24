package handler

import (
	"net/http"
	"strconv"

	"bookmarket/internal/delivery/http/middleware"
	"bookmarket/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// currentUserID returns the authenticated user's ID set by the auth middleware.
func currentUserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.ContextKeyUserID).(int64)

	return id, ok
}

// pageParam parses the "page" query parameter, defaulting to the first page.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}

	return page
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
