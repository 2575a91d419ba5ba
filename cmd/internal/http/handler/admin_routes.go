package handler

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ApprovalService interface {
	PendingOpportunities() ([]*contract.OpportunityResponse, apierror.ErrorResponse)
	PendingCompanies() ([]*contract.CompanyResponse, apierror.ErrorResponse)
	ApproveOpportunity(actor *entity.Principal, id uuid.UUID) (*contract.OpportunityResponse, apierror.ErrorResponse)
	RejectOpportunity(actor *entity.Principal, id uuid.UUID, req *contract.RejectRequest) (*contract.OpportunityResponse, apierror.ErrorResponse)
	ApproveCompany(actor *entity.Principal, id uuid.UUID) (*contract.CompanyResponse, apierror.ErrorResponse)
	RejectCompany(actor *entity.Principal, id uuid.UUID, req *contract.RejectRequest) (*contract.CompanyResponse, apierror.ErrorResponse)
	AuditTrail(entityType string, entityID uuid.UUID) ([]*contract.AuditLogResponse, apierror.ErrorResponse)
}

type DefaultAdminRoute struct {
	ApprovalService ApprovalService
}

func NewAdminDefault(approvalService ApprovalService) *DefaultAdminRoute {
	return &DefaultAdminRoute{ApprovalService: approvalService}
}

func (a *DefaultAdminRoute) PendingOpportunities(c echo.Context) error {
	opps, apierr := a.ApprovalService.PendingOpportunities()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"opportunities": opps})
}

func (a *DefaultAdminRoute) PendingCompanies(c echo.Context) error {
	companies, apierr := a.ApprovalService.PendingCompanies()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"companies": companies})
}

func (a *DefaultAdminRoute) ApproveOpportunity(c echo.Context) error {
	principal, id, apierr := principalAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	opp, apierr := a.ApprovalService.ApproveOpportunity(principal, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, opp)
}

func (a *DefaultAdminRoute) RejectOpportunity(c echo.Context) error {
	principal, id, apierr := principalAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	opp, apierr := a.ApprovalService.RejectOpportunity(principal, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, opp)
}

func (a *DefaultAdminRoute) ApproveCompany(c echo.Context) error {
	principal, id, apierr := principalAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	company, apierr := a.ApprovalService.ApproveCompany(principal, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}

func (a *DefaultAdminRoute) RejectCompany(c echo.Context) error {
	principal, id, apierr := principalAndID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	company, apierr := a.ApprovalService.RejectCompany(principal, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}

func (a *DefaultAdminRoute) AuditLogs(c echo.Context) error {
	entityType := strings.TrimSpace(c.QueryParam("entity_type"))
	if entityType == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("entity_type"))
	}

	entityID, err := uuid.Parse(strings.TrimSpace(c.QueryParam("entity_id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("entity_id", "uuid"))
	}

	logs, apierr := a.ApprovalService.AuditTrail(entityType, entityID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"audit_logs": logs})
}

func principalAndID(c echo.Context) (*entity.Principal, uuid.UUID, apierror.ErrorResponse) {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return nil, uuid.Nil, cerr
	}

	id, perr := parseUUIDParam(c, "id")
	if perr != nil {
		return nil, uuid.Nil, perr
	}
	return principal, id, nil
}
