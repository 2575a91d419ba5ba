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

type GraduationService interface {
	Create(actor *entity.Principal, req *contract.GraduationRequestCreate) (*contract.GraduationRequestResponse, apierror.ErrorResponse)
	List(rawStatus string) ([]*contract.GraduationRequestResponse, apierror.ErrorResponse)
	Approve(actor *entity.Principal, id uuid.UUID) (*contract.GraduationRequestResponse, apierror.ErrorResponse)
}

type DefaultGraduationRoute struct {
	GraduationService GraduationService
}

func NewGraduationDefault(gradService GraduationService) *DefaultGraduationRoute {
	return &DefaultGraduationRoute{GraduationService: gradService}
}

func (g *DefaultGraduationRoute) Create(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.GraduationRequestCreate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := g.GraduationService.Create(principal, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (g *DefaultGraduationRoute) List(c echo.Context) error {
	reqs, apierr := g.GraduationService.List(c.QueryParam("status"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": reqs})
}

func (g *DefaultGraduationRoute) Approve(c echo.Context) error {
	principal, id, apierr := principalAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := g.GraduationService.Approve(principal, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
