package middleware

import (
	"careerhub/cmd/internal/infrastructure/ratelimit"
	"careerhub/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// NewRateLimitMiddleware limits requests per client IP. scope separates the
// counters of unrelated endpoints.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := scope + ":" + c.RealIP()
			if !limiter.Allow(c.Request().Context(), key) {
				return c.JSON(apierror.RateLimitedError.Code(), apierror.RateLimitedError)
			}
			return next(c)
		}
	}
}
