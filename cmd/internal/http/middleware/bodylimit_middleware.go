package middleware

import (
	"careerhub/cmd/internal/utils/apierror"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewBodyLimitMiddleware caps request bodies at limit. Oversized bodies are
// answered with 400 instead of echo's 413, using the error registered for the
// matched route path when there is one.
func NewBodyLimitMiddleware(limit string, routeErrors map[string]apierror.ErrorResponse) echo.MiddlewareFunc {
	limiter := middleware.BodyLimit(limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := limiter(next)
		return func(c echo.Context) error {
			err := limited(c)
			if !errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
				return err
			}

			apierr, ok := routeErrors[c.Path()]
			if !ok {
				apierr = apierror.BodyTooLargeError
			}
			return c.JSON(apierr.Code(), apierr)
		}
	}
}
