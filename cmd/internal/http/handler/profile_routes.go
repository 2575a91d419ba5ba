package handler

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ProfileService interface {
	Get(actor *entity.Principal) (*contract.UserResponse, apierror.ErrorResponse)
	Update(actor *entity.Principal, req *contract.UpdateProfileRequest) (*contract.UserResponse, apierror.ErrorResponse)
}

type DefaultProfileRoute struct {
	ProfileService ProfileService
}

func NewProfileDefault(profileService ProfileService) *DefaultProfileRoute {
	return &DefaultProfileRoute{ProfileService: profileService}
}

func (p *DefaultProfileRoute) Get(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	user, apierr := p.ProfileService.Get(principal)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func (p *DefaultProfileRoute) Update(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := p.ProfileService.Update(principal, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}
