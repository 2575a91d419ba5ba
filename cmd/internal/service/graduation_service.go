package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type GraduationRepository interface {
	FindByID(id uuid.UUID) (*entity.GraduationRequest, error)
	CreatePending(req *entity.GraduationRequest) error
	FindByStatus(status entity.ApprovalStatus) ([]*entity.GraduationRequest, error)
	Approve(id uuid.UUID, review *entity.Review) (bool, error)
}

type GraduationService struct {
	GraduationRepo GraduationRepository
	AuditRepo      AuditRepository
	Validate       *validator.Validate
}

func NewGraduationService(gradRepo GraduationRepository, auditRepo AuditRepository, validate *validator.Validate) *GraduationService {
	return &GraduationService{
		GraduationRepo: gradRepo,
		AuditRepo:      auditRepo,
		Validate:       validate,
	}
}

func (g *GraduationService) Create(actor *entity.Principal, req *contract.GraduationRequestCreate) (*contract.GraduationRequestResponse, apierror.ErrorResponse) {
	if actor.Role != entity.RoleStudent {
		return nil, apierror.ForbiddenError
	}

	utils.Sanitize(req)
	if err := g.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	gradReq := &entity.GraduationRequest{
		UserID:    actor.ID,
		Year:      req.Year,
		Degree:    req.Degree,
		Thesis:    req.Thesis,
		GPA:       req.GPA,
		CreatedAt: utils.NowUTC(),
	}

	err := g.GraduationRepo.CreatePending(gradReq)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apierror.GraduationPendingError
	}

	if err != nil {
		log.Errorf("failed to create graduation request of %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}
	return toGraduationResponse(gradReq), nil
}

// List filters by status, PENDING when rawStatus is empty.
func (g *GraduationService) List(rawStatus string) ([]*contract.GraduationRequestResponse, apierror.ErrorResponse) {
	status := entity.ApprovalPending
	if rawStatus != "" {
		parsed, ok := entity.ParseApprovalStatus(rawStatus)
		if !ok {
			return nil, apierror.InvalidStatusError
		}
		status = parsed
	}

	reqs, err := g.GraduationRepo.FindByStatus(status)
	if err != nil {
		log.Errorf("failed to list graduation requests: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.GraduationRequestResponse, len(reqs))
	for i, req := range reqs {
		resp[i] = toGraduationResponse(req)
	}
	return resp, nil
}

// Approve marks the request approved and makes its user a graduate.
func (g *GraduationService) Approve(actor *entity.Principal, id uuid.UUID) (*contract.GraduationRequestResponse, apierror.ErrorResponse) {
	req, err := g.GraduationRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch graduation request %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if req == nil {
		return nil, apierror.GraduationRequestNotFoundError
	}

	if !req.Status.CanTransitionTo(entity.ApprovalApproved) {
		return nil, apierror.InvalidTransitionError
	}

	review := &entity.Review{
		Status:  entity.ApprovalApproved,
		ActorID: actor.ID,
		At:      utils.NowUTC(),
	}

	applied, err := g.GraduationRepo.Approve(id, review)
	if err != nil {
		log.Errorf("failed to approve graduation request %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if !applied {
		return nil, apierror.InvalidTransitionError
	}

	req.Status = entity.ApprovalApproved
	req.ReviewedByID = &actor.ID
	req.ReviewedAt = review.At

	appendAudit(g.AuditRepo, &entity.AuditLog{
		Action:     entity.AuditApprove,
		EntityType: entity.AuditEntityGraduationRequest,
		EntityID:   req.ID,
		ActorID:    actor.ID,
		CreatedAt:  review.At,
	}, map[string]any{
		"user_id": req.UserID,
		"degree":  req.Degree,
		"year":    req.Year,
	})
	return toGraduationResponse(req), nil
}
