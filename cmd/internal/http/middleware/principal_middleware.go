package middleware

import (
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/service"
	"careerhub/cmd/internal/session"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type IdentityResolver interface {
	Resolve(creds *service.Credentials) (*entity.Principal, apierror.ErrorResponse)
}

type PrincipalMiddlewareConfig struct {
	Identity IdentityResolver

	// Optional lets anonymous requests through without a principal.
	// Invalid credentials are still rejected.
	Optional bool
}

// NewPrincipalMiddleware resolves the request principal and stores it
// under utils.PrincipalKey.
func NewPrincipalMiddleware(cfg *PrincipalMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, apierr := cfg.Identity.Resolve(credentialsOf(c))
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			if principal == nil {
				if cfg.Optional {
					return next(c)
				}
				return c.JSON(apierror.UnauthorizedError.Code(), apierror.UnauthorizedError)
			}

			c.Set(utils.PrincipalKey, principal)
			return next(c)
		}
	}
}

// RequireRole must run after the principal middleware.
func RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, cerr := utils.GetPrincipalFromContext(c)
			if cerr != nil {
				return c.JSON(cerr.Code(), cerr)
			}

			if !principal.Is(roles...) {
				return c.JSON(apierror.ForbiddenError.Code(), apierror.ForbiddenError)
			}
			return next(c)
		}
	}
}

func credentialsOf(c echo.Context) *service.Credentials {
	idToken := utils.SanitizeToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if idToken == "" {
		idToken = session.ReadCookie(c, session.UserCookie)
	}

	return &service.Credentials{
		CompanySession: session.ReadCookie(c, session.CompanyCookie),
		IDToken:        idToken,
	}
}
