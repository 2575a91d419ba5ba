package utils

import (
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const PrincipalKey = "principal"

func GetPrincipalFromContext(c echo.Context) (*entity.Principal, apierror.ErrorResponse) {
	val := c.Get(PrincipalKey)
	if val == nil {
		log.Warnf("route %s attempted to read nil principal from context", c.Request().URL)
		return nil, apierror.UnauthorizedError
	}

	principal, ok := val.(*entity.Principal)
	if !ok {
		log.Warnf("expected principal type at '%s' context key, got %T", PrincipalKey, val)
		return nil, apierror.InternalServerError
	}
	return principal, nil
}
