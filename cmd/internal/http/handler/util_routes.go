package handler

import (
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HealthCheck is used by the container healthcheck.
func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return uuid.Nil, apierror.NewMissingParamError(name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.NewInvalidParamTypeError(name, "uuid")
	}
	return id, nil
}

// optionalPrincipal is for routes mounted with the optional principal
// middleware.
func optionalPrincipal(c echo.Context) *entity.Principal {
	if c.Get(utils.PrincipalKey) == nil {
		return nil
	}

	principal, _ := utils.GetPrincipalFromContext(c)
	return principal
}
