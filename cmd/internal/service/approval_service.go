package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/events"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"gorm.io/datatypes"
)

// MinRejectionReasonLength is counted in characters after trimming.
const MinRejectionReasonLength = 20

type AuditRepository interface {
	Append(entry *entity.AuditLog) error
	FindByEntity(entityType entity.AuditEntity, entityID uuid.UUID) ([]*entity.AuditLog, error)
}

type ReviewableOpportunityRepository interface {
	FindByID(id uuid.UUID) (*entity.Opportunity, error)
	FindPending() ([]*entity.Opportunity, error)
	ApplyReview(id uuid.UUID, review *entity.Review, lifecycle entity.LifecycleStatus) (bool, error)
}

type ReviewableCompanyRepository interface {
	FindByID(id uuid.UUID) (*entity.Company, error)
	FindByApprovalStatus(status entity.ApprovalStatus) ([]*entity.Company, error)
	ApplyReview(id uuid.UUID, review *entity.Review) (bool, error)
}

// ApprovalService runs the administrator workflow shared by opportunities
// and companies: pending rows are approved or rejected once, every
// decision leaves one audit entry and the owning company is told in
// realtime.
type ApprovalService struct {
	OpportunityRepo ReviewableOpportunityRepository
	CompanyRepo     ReviewableCompanyRepository
	AuditRepo       AuditRepository
	Events          EventDispatcher
}

func NewApprovalService(
	oppRepo ReviewableOpportunityRepository,
	companyRepo ReviewableCompanyRepository,
	auditRepo AuditRepository,
	dispatcher EventDispatcher,
) *ApprovalService {
	return &ApprovalService{
		OpportunityRepo: oppRepo,
		CompanyRepo:     companyRepo,
		AuditRepo:       auditRepo,
		Events:          dispatcher,
	}
}

func (a *ApprovalService) PendingOpportunities() ([]*contract.OpportunityResponse, apierror.ErrorResponse) {
	opps, err := a.OpportunityRepo.FindPending()
	if err != nil {
		log.Errorf("failed to fetch pending opportunities: %v", err)
		return nil, apierror.InternalServerError
	}
	return toOpportunityResponses(opps), nil
}

func (a *ApprovalService) PendingCompanies() ([]*contract.CompanyResponse, apierror.ErrorResponse) {
	companies, err := a.CompanyRepo.FindByApprovalStatus(entity.ApprovalPending)
	if err != nil {
		log.Errorf("failed to fetch pending companies: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CompanyResponse, len(companies))
	for i, company := range companies {
		resp[i] = toCompanyResponse(company)
	}
	return resp, nil
}

func (a *ApprovalService) ApproveOpportunity(actor *entity.Principal, id uuid.UUID) (*contract.OpportunityResponse, apierror.ErrorResponse) {
	return a.reviewOpportunity(actor, id, entity.ApprovalApproved, "")
}

func (a *ApprovalService) RejectOpportunity(actor *entity.Principal, id uuid.UUID, req *contract.RejectRequest) (*contract.OpportunityResponse, apierror.ErrorResponse) {
	reason, apierr := checkRejectionReason(req)
	if apierr != nil {
		return nil, apierr
	}
	return a.reviewOpportunity(actor, id, entity.ApprovalRejected, reason)
}

func (a *ApprovalService) ApproveCompany(actor *entity.Principal, id uuid.UUID) (*contract.CompanyResponse, apierror.ErrorResponse) {
	return a.reviewCompany(actor, id, entity.ApprovalApproved, "")
}

func (a *ApprovalService) RejectCompany(actor *entity.Principal, id uuid.UUID, req *contract.RejectRequest) (*contract.CompanyResponse, apierror.ErrorResponse) {
	reason, apierr := checkRejectionReason(req)
	if apierr != nil {
		return nil, apierr
	}
	return a.reviewCompany(actor, id, entity.ApprovalRejected, reason)
}

func (a *ApprovalService) AuditTrail(entityType string, entityID uuid.UUID) ([]*contract.AuditLogResponse, apierror.ErrorResponse) {
	kind := entity.AuditEntity(entityType)
	switch kind {
	case entity.AuditEntityOpportunity, entity.AuditEntityCompany, entity.AuditEntityGraduationRequest:
	default:
		return nil, apierror.NewInvalidParamTypeError("entity_type", "COMPANY, OPPORTUNITY or GRADUATION_REQUEST")
	}

	entries, err := a.AuditRepo.FindByEntity(kind, entityID)
	if err != nil {
		log.Errorf("failed to fetch audit trail of %s %s: %v", kind, entityID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.AuditLogResponse, len(entries))
	for i, entry := range entries {
		resp[i] = toAuditLogResponse(entry)
	}
	return resp, nil
}

func (a *ApprovalService) reviewOpportunity(actor *entity.Principal, id uuid.UUID, status entity.ApprovalStatus, reason string) (*contract.OpportunityResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	opp, err := a.OpportunityRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch opportunity %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if opp == nil {
		return nil, apierror.OpportunityNotFoundError
	}

	if !opp.ApprovalStatus.CanTransitionTo(status) {
		return nil, apierror.InvalidTransitionError
	}

	lifecycle := entity.LifecycleActive
	if status == entity.ApprovalRejected {
		lifecycle = entity.LifecycleInactive
	}

	review := &entity.Review{
		Status:  status,
		Reason:  reason,
		ActorID: actor.ID,
		At:      utils.NowUTC(),
	}

	applied, err := a.OpportunityRepo.ApplyReview(id, review, lifecycle)
	if err != nil {
		log.Errorf("failed to review opportunity %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	// Someone else decided between our read and our write
	if !applied {
		return nil, apierror.InvalidTransitionError
	}

	previous := opp.ApprovalStatus
	opp.ApprovalStatus = status
	opp.LifecycleStatus = lifecycle
	opp.RejectionReason = reason
	opp.ReviewedByID = &actor.ID
	opp.ReviewedAt = review.At
	opp.UpdatedAt = review.At

	a.audit(&entity.AuditLog{
		Action:     auditActionFor(status),
		EntityType: entity.AuditEntityOpportunity,
		EntityID:   opp.ID,
		CompanyID:  &opp.CompanyID,
		ActorID:    actor.ID,
		CreatedAt:  review.At,
	}, map[string]any{
		"title":           opp.Title,
		"reason":          reason,
		"previous_status": previous,
	})

	resp := toOpportunityResponse(opp)
	a.dispatch(opp.CompanyID, &events.OpportunityReviewed{OpportunityResponse: resp})
	return resp, nil
}

func (a *ApprovalService) reviewCompany(actor *entity.Principal, id uuid.UUID, status entity.ApprovalStatus, reason string) (*contract.CompanyResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	company, err := a.CompanyRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch company %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if company == nil {
		return nil, apierror.CompanyNotFoundError
	}

	if !company.ApprovalStatus.CanTransitionTo(status) {
		return nil, apierror.InvalidTransitionError
	}

	review := &entity.Review{
		Status:  status,
		Reason:  reason,
		ActorID: actor.ID,
		At:      utils.NowUTC(),
	}

	applied, err := a.CompanyRepo.ApplyReview(id, review)
	if err != nil {
		log.Errorf("failed to review company %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if !applied {
		return nil, apierror.InvalidTransitionError
	}

	previous := company.ApprovalStatus
	company.ApprovalStatus = status
	company.RejectionReason = reason
	company.ReviewedByID = &actor.ID
	company.ReviewedAt = review.At
	company.UpdatedAt = review.At

	a.audit(&entity.AuditLog{
		Action:     auditActionFor(status),
		EntityType: entity.AuditEntityCompany,
		EntityID:   company.ID,
		CompanyID:  &company.ID,
		ActorID:    actor.ID,
		CreatedAt:  review.At,
	}, map[string]any{
		"name":            company.Name,
		"reason":          reason,
		"previous_status": previous,
	})

	resp := toCompanyResponse(company)
	a.dispatch(company.ID, &events.CompanyReviewed{CompanyResponse: resp})
	return resp, nil
}

func (a *ApprovalService) dispatch(companyID uuid.UUID, evt events.SocketEvent) {
	if a.Events == nil {
		return
	}
	go a.Events.Dispatch(context.Background(), companyID, evt)
}

// audit is best-effort, a failed write is logged and the decision stands.
func (a *ApprovalService) audit(entry *entity.AuditLog, details map[string]any) {
	appendAudit(a.AuditRepo, entry, details)
}

func appendAudit(repo AuditRepository, entry *entity.AuditLog, details map[string]any) {
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Errorf("failed to encode audit details for %s %s: %v", entry.EntityType, entry.EntityID, err)
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}

	if err := repo.Append(entry); err != nil {
		log.Errorf("failed to write audit log (%s %s %s): %v", entry.Action, entry.EntityType, entry.EntityID, err)
	}
}

func checkRejectionReason(req *contract.RejectRequest) (string, apierror.ErrorResponse) {
	if req == nil {
		return "", apierror.RejectionReasonTooShortError
	}

	utils.Sanitize(req)
	if utils.CharCount(req.RejectionReason) < MinRejectionReasonLength {
		return "", apierror.RejectionReasonTooShortError
	}
	return req.RejectionReason, nil
}

func auditActionFor(status entity.ApprovalStatus) entity.AuditAction {
	if status == entity.ApprovalRejected {
		return entity.AuditReject
	}
	return entity.AuditApprove
}
