package handler

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/service"
	"careerhub/cmd/internal/session"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CompanyService interface {
	Register(ctx context.Context, req *contract.CompanyRegisterRequest) (*contract.CompanyResponse, apierror.ErrorResponse)
	Login(req *contract.CompanyLoginRequest) (*service.CompanySession, apierror.ErrorResponse)
	GetMe(actor *entity.Principal) (*contract.CompanyResponse, apierror.ErrorResponse)
	UploadLogo(ctx context.Context, actor *entity.Principal, fileHeader *multipart.FileHeader) (*contract.CompanyLogoResponse, apierror.ErrorResponse)
	Metrics(actor *entity.Principal) (*contract.CompanyMetricsResponse, apierror.ErrorResponse)
	DashboardOpportunities(actor *entity.Principal) ([]*contract.CompanyOpportunityResponse, apierror.ErrorResponse)
	DeleteSelf(ctx context.Context, actor *entity.Principal) apierror.ErrorResponse
	DeleteByAdmin(ctx context.Context, actor *entity.Principal, companyID uuid.UUID) apierror.ErrorResponse
}

type DefaultCompanyRoute struct {
	CompanyService CompanyService
	Sessions       *session.Manager
}

func NewCompanyDefault(companyService CompanyService, sessions *session.Manager) *DefaultCompanyRoute {
	return &DefaultCompanyRoute{CompanyService: companyService, Sessions: sessions}
}

func (h *DefaultCompanyRoute) Register(c echo.Context) error {
	var req contract.CompanyRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	company, apierr := h.CompanyService.Register(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, company)
}

func (h *DefaultCompanyRoute) Login(c echo.Context) error {
	var req contract.CompanyLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	sess, apierr := h.CompanyService.Login(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	h.Sessions.SetCookie(c, session.CompanyCookie, sess.Token, sess.TTL)
	return c.JSON(http.StatusOK, echo.Map{"company": sess.Company})
}

func (h *DefaultCompanyRoute) Logout(c echo.Context) error {
	h.Sessions.ClearCookie(c, session.CompanyCookie)
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCompanyRoute) GetMe(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	company, apierr := h.CompanyService.GetMe(principal)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *DefaultCompanyRoute) UploadLogo(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	fileHeader, err := c.FormFile("logo")
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return err
	}
	if err != nil {
		return c.JSON(apierror.MissingFileError.Code(), apierror.MissingFileError)
	}

	resp, apierr := h.CompanyService.UploadLogo(c.Request().Context(), principal, fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DefaultCompanyRoute) Metrics(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	metrics, apierr := h.CompanyService.Metrics(principal)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, metrics)
}

func (h *DefaultCompanyRoute) DashboardOpportunities(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	opps, apierr := h.CompanyService.DashboardOpportunities(principal)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"opportunities": opps})
}

func (h *DefaultCompanyRoute) DeleteSelf(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	if apierr := h.CompanyService.DeleteSelf(c.Request().Context(), principal); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	h.Sessions.ClearCookie(c, session.CompanyCookie)
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCompanyRoute) DeleteByAdmin(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseUUIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	if apierr := h.CompanyService.DeleteByAdmin(c.Request().Context(), principal, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
