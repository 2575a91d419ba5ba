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
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ApplicationService interface {
	Apply(ctx context.Context, actor *entity.Principal, rawOppID string, fileHeader *multipart.FileHeader) (*contract.ApplyResponse, apierror.ErrorResponse)
	ListMine(actor *entity.Principal) ([]*contract.ApplicationResponse, apierror.ErrorResponse)
	ListApplicants(actor *entity.Principal, oppID uuid.UUID) ([]*contract.ApplicantResponse, apierror.ErrorResponse)
	CVDownloadURL(ctx context.Context, actor *entity.Principal, oppID uuid.UUID, rawApplyID string) (string, apierror.ErrorResponse)
}

type DefaultApplicationRoute struct {
	ApplicationService ApplicationService
}

func NewApplicationDefault(appService ApplicationService) *DefaultApplicationRoute {
	return &DefaultApplicationRoute{ApplicationService: appService}
}

func (a *DefaultApplicationRoute) Apply(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	oppID := strings.TrimSpace(c.FormValue("opportunity_id"))
	if oppID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("opportunity_id"))
	}

	fileHeader, err := c.FormFile("cv")
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return err
	}
	if err != nil {
		return c.JSON(apierror.MissingFileError.Code(), apierror.MissingFileError)
	}

	resp, apierr := a.ApplicationService.Apply(c.Request().Context(), principal, oppID, fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (a *DefaultApplicationRoute) ListMine(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	apps, apierr := a.ApplicationService.ListMine(principal)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"applications": apps})
}

func (a *DefaultApplicationRoute) ListApplicants(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseUUIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	applicants, apierr := a.ApplicationService.ListApplicants(principal, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"applicants": applicants})
}

func (a *DefaultApplicationRoute) DownloadCV(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseUUIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	applyID := strings.TrimSpace(c.QueryParam("apply_id"))
	if applyID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("apply_id"))
	}

	url, apierr := a.ApplicationService.CVDownloadURL(c.Request().Context(), principal, id, applyID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.Redirect(http.StatusFound, url)
}
