package handler

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type InterestService interface {
	Manifest(actor *entity.Principal, oppID uuid.UUID) (*contract.InterestResponse, apierror.ErrorResponse)
	Withdraw(actor *entity.Principal, oppID uuid.UUID) apierror.ErrorResponse
	ListMine(actor *entity.Principal) ([]*contract.InterestResponse, apierror.ErrorResponse)
}

type DefaultInterestRoute struct {
	InterestService InterestService
}

func NewInterestDefault(interestService InterestService) *DefaultInterestRoute {
	return &DefaultInterestRoute{InterestService: interestService}
}

func (i *DefaultInterestRoute) Manifest(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	oppID, perr := parseUUIDParam(c, "opportunityId")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	interest, apierr := i.InterestService.Manifest(principal, oppID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, interest)
}

func (i *DefaultInterestRoute) Withdraw(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	oppID, perr := parseUUIDParam(c, "opportunityId")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	if apierr := i.InterestService.Withdraw(principal, oppID); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (i *DefaultInterestRoute) ListMine(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	interests, apierr := i.InterestService.ListMine(principal)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"interests": interests})
}
