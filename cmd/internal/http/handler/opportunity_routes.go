package handler

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OpportunityService interface {
	UpsertJob(actor *entity.Principal, req *contract.JobOpportunityRequest) (*contract.OpportunityResponse, bool, apierror.ErrorResponse)
	UpsertTFG(actor *entity.Principal, req *contract.TFGOpportunityRequest) (*contract.OpportunityResponse, bool, apierror.ErrorResponse)
	Delete(actor *entity.Principal, req *contract.DeleteOpportunityRequest) apierror.ErrorResponse
	UploadFlyer(ctx context.Context, actor *entity.Principal, id uuid.UUID, fileHeader *multipart.FileHeader) (*contract.FlyerResponse, apierror.ErrorResponse)
	ListPublished(rawType string) ([]*contract.OpportunityResponse, apierror.ErrorResponse)
	Get(actor *entity.Principal, id uuid.UUID) (*contract.OpportunityResponse, apierror.ErrorResponse)
}

type DefaultOpportunityRoute struct {
	OpportunityService OpportunityService
}

func NewOpportunityDefault(oppService OpportunityService) *DefaultOpportunityRoute {
	return &DefaultOpportunityRoute{OpportunityService: oppService}
}

func (o *DefaultOpportunityRoute) UpsertJob(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.JobOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	opp, created, apierr := o.OpportunityService.UpsertJob(principal, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(upsertStatus(created), opp)
}

func (o *DefaultOpportunityRoute) UpsertTFG(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.TFGOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	opp, created, apierr := o.OpportunityService.UpsertTFG(principal, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(upsertStatus(created), opp)
}

func (o *DefaultOpportunityRoute) Delete(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.DeleteOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := o.OpportunityService.Delete(principal, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (o *DefaultOpportunityRoute) UploadFlyer(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseUUIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	fileHeader, err := c.FormFile("flyer")
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return err
	}
	if err != nil {
		return c.JSON(apierror.MissingFileError.Code(), apierror.MissingFileError)
	}

	resp, apierr := o.OpportunityService.UploadFlyer(c.Request().Context(), principal, id, fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (o *DefaultOpportunityRoute) List(c echo.Context) error {
	opps, apierr := o.OpportunityService.ListPublished(c.QueryParam("type"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"opportunities": opps})
}

func (o *DefaultOpportunityRoute) Get(c echo.Context) error {
	id, perr := parseUUIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	opp, apierr := o.OpportunityService.Get(optionalPrincipal(c), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, opp)
}

func upsertStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
