package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adaste/loan-system/internal/api/middleware"
	"github.com/adaste/loan-system/internal/core/domain"
)

// ctxIdentity returns the caller injected by the Auth middleware. Handlers
// mounted behind Auth can rely on it; the 401 guards against mis-wired routes.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.ID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}

// bindAndValidate decodes the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

type messageResponse struct {
	Message string `json:"message"`
}
