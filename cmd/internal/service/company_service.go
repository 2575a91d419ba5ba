package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/events"
	"careerhub/cmd/internal/domain/policy"
	"careerhub/cmd/internal/infrastructure/aws/storage"
	"careerhub/cmd/internal/infrastructure/mail"
	"careerhub/cmd/internal/session"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type CompanyRepository interface {
	FindByID(id uuid.UUID) (*entity.Company, error)
	FindByEmail(email string) (*entity.Company, error)
	CreateWith(company *entity.Company, afterCreate func(*entity.Company) error) error
	Save(company *entity.Company) error
	DeleteGuarded(id uuid.UUID) ([]string, error)
}

type CompanyMetricsRepository interface {
	CompanyMetrics(companyID uuid.UUID) (*entity.CompanyMetrics, error)
	FindSummariesByCompany(companyID uuid.UUID) ([]*entity.OpportunitySummary, error)
}

// CompanySession is what a successful company login hands to the handler.
type CompanySession struct {
	Token   string
	TTL     time.Duration
	Company *contract.CompanyResponse
}

type CompanyService struct {
	CompanyRepo   CompanyRepository
	MetricsRepo   CompanyMetricsRepository
	AuditRepo     AuditRepository
	Sessions      *session.Manager
	Notifier      mail.Notifier
	S3            storage.S3Client
	WSService     *WebSocketService
	CompanyPolicy *policy.CompanyPolicy
	Validate      *validator.Validate
}

func NewCompanyService(
	companyRepo CompanyRepository,
	metricsRepo CompanyMetricsRepository,
	auditRepo AuditRepository,
	sessions *session.Manager,
	notifier mail.Notifier,
	s3 storage.S3Client,
	wsService *WebSocketService,
	companyPolicy *policy.CompanyPolicy,
	validate *validator.Validate,
) *CompanyService {
	return &CompanyService{
		CompanyRepo:   companyRepo,
		MetricsRepo:   metricsRepo,
		AuditRepo:     auditRepo,
		Sessions:      sessions,
		Notifier:      notifier,
		S3:            s3,
		WSService:     wsService,
		CompanyPolicy: companyPolicy,
		Validate:      validate,
	}
}

// Register creates a pending company and tells the administrators. The
// row and the email succeed or fail together.
func (c *CompanyService) Register(ctx context.Context, req *contract.CompanyRegisterRequest) (*contract.CompanyResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := c.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	existing, err := c.CompanyRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check company email %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if existing != nil {
		return nil, apierror.CompanyEmailTakenError
	}

	hash, err := session.HashPassword(req.Password)
	if err != nil {
		log.Errorf("failed to hash company password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	company := &entity.Company{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		ApprovalStatus: entity.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = c.CompanyRepo.CreateWith(company, func(created *entity.Company) error {
		return c.Notifier.NotifyCompanyRegistered(ctx, created.Name, created.Email)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apierror.CompanyEmailTakenError
	}

	if err != nil {
		log.Errorf("failed to register company %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	return toCompanyResponse(company), nil
}

func (c *CompanyService) Login(req *contract.CompanyLoginRequest) (*CompanySession, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := c.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	company, err := c.CompanyRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch company %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if company == nil || !session.CheckPassword(company.PasswordHash, req.Password) {
		return nil, apierror.CompanyCredentialsError
	}

	if apierr := c.CompanyPolicy.CanLogin(company); apierr != nil {
		return nil, apierr
	}

	token, err := c.Sessions.Issue(company.ID, company.Name, company.Email)
	if err != nil {
		log.Errorf("failed to issue session for company %s: %v", company.ID, err)
		return nil, apierror.InternalServerError
	}

	return &CompanySession{
		Token:   token,
		TTL:     c.Sessions.TTL(),
		Company: toCompanyResponse(company),
	}, nil
}

func (c *CompanyService) GetMe(actor *entity.Principal) (*contract.CompanyResponse, apierror.ErrorResponse) {
	company, apierr := c.fetchCompany(actor.ID)
	if apierr != nil {
		return nil, apierr
	}
	return toCompanyResponse(company), nil
}

func (c *CompanyService) UploadLogo(ctx context.Context, actor *entity.Principal, fileHeader *multipart.FileHeader) (*contract.CompanyLogoResponse, apierror.ErrorResponse) {
	data, apierr := checkLogo(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	company, apierr := c.fetchCompany(actor.ID)
	if apierr != nil {
		return nil, apierr
	}

	key, err := c.S3.UploadFile(ctx, storage.LogoKey(company.ID, fileHeader.Filename), data)
	if err != nil {
		log.Errorf("failed to upload logo of company %s: %v", company.ID, err)
		return nil, apierror.StorageUnavailableError
	}

	company.LogoURL = c.S3.PublicURL(key)
	company.UpdatedAt = utils.NowUTC()
	if err = c.CompanyRepo.Save(company); err != nil {
		log.Errorf("failed to save logo of company %s: %v", company.ID, err)
		return nil, apierror.InternalServerError
	}
	return &contract.CompanyLogoResponse{LogoURL: company.LogoURL}, nil
}

func (c *CompanyService) Metrics(actor *entity.Principal) (*contract.CompanyMetricsResponse, apierror.ErrorResponse) {
	metrics, err := c.MetricsRepo.CompanyMetrics(actor.ID)
	if err != nil {
		log.Errorf("failed to compute metrics of company %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.CompanyMetricsResponse{
		TotalOpportunities:    metrics.TotalOpportunities,
		ActiveOpportunities:   metrics.ActiveOpportunities,
		InactiveOpportunities: metrics.InactiveOpportunities,
		PendingOpportunities:  metrics.PendingOpportunities,
		ApprovedOpportunities: metrics.ApprovedOpportunities,
		RejectedOpportunities: metrics.RejectedOpportunities,
		TotalApplications:     metrics.TotalApplications,
		TotalInterests:        metrics.TotalInterests,
	}, nil
}

func (c *CompanyService) DashboardOpportunities(actor *entity.Principal) ([]*contract.CompanyOpportunityResponse, apierror.ErrorResponse) {
	summaries, err := c.MetricsRepo.FindSummariesByCompany(actor.ID)
	if err != nil {
		log.Errorf("failed to list opportunities of company %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CompanyOpportunityResponse, len(summaries))
	for i, summary := range summaries {
		resp[i] = &contract.CompanyOpportunityResponse{
			OpportunityResponse: toOpportunityResponse(&summary.Opportunity),
			ApplicationCount:    summary.ApplicationCount,
			InterestCount:       summary.InterestCount,
		}
	}
	return resp, nil
}

// DeleteSelf removes the calling company.
func (c *CompanyService) DeleteSelf(ctx context.Context, actor *entity.Principal) apierror.ErrorResponse {
	return c.delete(ctx, actor, actor.ID)
}

// DeleteByAdmin removes any company and records the action.
func (c *CompanyService) DeleteByAdmin(ctx context.Context, actor *entity.Principal, companyID uuid.UUID) apierror.ErrorResponse {
	return c.delete(ctx, actor, companyID)
}

func (c *CompanyService) delete(ctx context.Context, actor *entity.Principal, companyID uuid.UUID) apierror.ErrorResponse {
	company, apierr := c.fetchCompany(companyID)
	if apierr != nil {
		return apierr
	}

	cvKeys, err := c.CompanyRepo.DeleteGuarded(companyID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apierror.CompanyNotFoundError
	case errors.Is(err, repository.ErrHasActiveOpportunities):
		return apierror.CompanyHasActiveOpportunityError
	case err != nil:
		log.Errorf("failed to delete company %s: %v", companyID, err)
		return apierror.InternalServerError
	}

	if actor.Role == entity.RoleAdmin {
		appendAudit(c.AuditRepo, &entity.AuditLog{
			Action:     entity.AuditDelete,
			EntityType: entity.AuditEntityCompany,
			EntityID:   companyID,
			CompanyID:  &companyID,
			ActorID:    actor.ID,
		}, map[string]any{
			"name":  company.Name,
			"email": company.Email,
		})
	}

	go c.cleanupDeleted(companyID, cvKeys)
	return nil
}

// cleanupDeleted drops stored CVs and live connections of a company that
// no longer exists. Failures only leave orphans behind.
func (c *CompanyService) cleanupDeleted(companyID uuid.UUID, cvKeys []string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, key := range cvKeys {
		if err := c.S3.DeleteFile(ctx, key); err != nil {
			log.Warnf("failed to delete orphaned cv %s: %v", key, err)
		}
	}

	if c.WSService != nil {
		c.WSService.TerminateConnections(ctx, companyID, &events.ConnectionKill{
			Code: contract.KillCodeAccountDeleted,
		})
	}
}

func (c *CompanyService) fetchCompany(id uuid.UUID) (*entity.Company, apierror.ErrorResponse) {
	company, err := c.CompanyRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch company %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if company == nil {
		return nil, apierror.CompanyNotFoundError
	}
	return company, nil
}
