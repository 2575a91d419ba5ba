package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/policy"
	"careerhub/cmd/internal/infrastructure/aws/storage"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type ApplicationRepository interface {
	FindByID(id uuid.UUID) (*entity.Application, error)
	Exists(userID, opportunityID uuid.UUID) (bool, error)
	Create(app *entity.Application) error
	FindByUser(userID uuid.UUID) ([]*entity.Application, error)
	FindByOpportunity(opportunityID uuid.UUID) ([]*entity.Application, error)
}

type ApplicationService struct {
	ApplicationRepo   ApplicationRepository
	OpportunityRepo   OpportunityRepository
	S3                storage.S3Client
	OpportunityPolicy *policy.OpportunityPolicy
	CVURLTTL          time.Duration
}

func NewApplicationService(
	appRepo ApplicationRepository,
	oppRepo OpportunityRepository,
	s3 storage.S3Client,
	oppPolicy *policy.OpportunityPolicy,
	cvURLTTL time.Duration,
) *ApplicationService {
	return &ApplicationService{
		ApplicationRepo:   appRepo,
		OpportunityRepo:   oppRepo,
		S3:                s3,
		OpportunityPolicy: oppPolicy,
		CVURLTTL:          cvURLTTL,
	}
}

// Apply stores the CV and the application of actor to the opportunity.
// The file is fully checked before anything reaches the bucket.
func (a *ApplicationService) Apply(ctx context.Context, actor *entity.Principal, rawOppID string, fileHeader *multipart.FileHeader) (*contract.ApplyResponse, apierror.ErrorResponse) {
	if !actor.IsIndividual() {
		return nil, apierror.ForbiddenError
	}

	data, apierr := checkCV(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	oppID, err := uuid.Parse(rawOppID)
	if err != nil {
		return nil, apierror.InvalidIDError
	}

	opp, err := a.OpportunityRepo.FindByID(oppID)
	if err != nil {
		log.Errorf("failed to fetch opportunity %s: %v", oppID, err)
		return nil, apierror.InternalServerError
	}

	if apierr = a.OpportunityPolicy.CanEngage(opp, actor); apierr != nil {
		return nil, apierr
	}

	applied, err := a.ApplicationRepo.Exists(actor.ID, oppID)
	if err != nil {
		log.Errorf("failed to check application of %s to %s: %v", actor.ID, oppID, err)
		return nil, apierror.InternalServerError
	}

	if applied {
		return nil, apierror.AlreadyAppliedError
	}

	key, err := a.S3.UploadFile(ctx, storage.CVKey(oppID, actor.ID), data)
	if err != nil {
		log.Errorf("failed to upload cv of %s for %s: %v", actor.ID, oppID, err)
		return nil, apierror.StorageUnavailableError
	}

	app := &entity.Application{
		UserID:        actor.ID,
		OpportunityID: oppID,
		CVKey:         key,
		CreatedAt:     utils.NowUTC(),
	}

	err = a.ApplicationRepo.Create(app)
	if err != nil {
		// The object has no row pointing at it anymore
		if derr := a.S3.DeleteFile(ctx, key); derr != nil {
			log.Warnf("failed to delete orphaned cv %s: %v", key, derr)
		}

		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierror.AlreadyAppliedError
		}

		log.Errorf("failed to store application of %s to %s: %v", actor.ID, oppID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.ApplyResponse{
		ApplyID: app.ID.String(),
		CVURL:   CVDownloadPath(oppID, app.ID),
	}, nil
}

func (a *ApplicationService) ListMine(actor *entity.Principal) ([]*contract.ApplicationResponse, apierror.ErrorResponse) {
	apps, err := a.ApplicationRepo.FindByUser(actor.ID)
	if err != nil {
		log.Errorf("failed to list applications of %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ApplicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = &contract.ApplicationResponse{
			ID:        app.ID.String(),
			AppliedAt: utils.FormatEpoch(app.CreatedAt),
		}
		if app.Opportunity != nil {
			resp[i].Opportunity = toOpportunityResponse(app.Opportunity)
		}
	}
	return resp, nil
}

// ListApplicants returns who applied to an opportunity of the calling company.
func (a *ApplicationService) ListApplicants(actor *entity.Principal, oppID uuid.UUID) ([]*contract.ApplicantResponse, apierror.ErrorResponse) {
	opp, err := a.OpportunityRepo.FindOwned(oppID, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch opportunity %s: %v", oppID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := a.OpportunityPolicy.CanEdit(opp, actor); apierr != nil {
		return nil, apierr
	}

	apps, err := a.ApplicationRepo.FindByOpportunity(oppID)
	if err != nil {
		log.Errorf("failed to list applicants of %s: %v", oppID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ApplicantResponse, len(apps))
	for i, app := range apps {
		resp[i] = &contract.ApplicantResponse{
			ApplyID:   app.ID.String(),
			UserID:    app.UserID.String(),
			AppliedAt: utils.FormatEpoch(app.CreatedAt),
		}
		if app.User != nil {
			resp[i].FullName = app.User.FullName
			resp[i].Email = app.User.Email
			resp[i].Degree = app.User.Degree
		}
	}
	return resp, nil
}

// CVDownloadURL returns a short lived link to the CV of an application.
func (a *ApplicationService) CVDownloadURL(ctx context.Context, actor *entity.Principal, oppID uuid.UUID, rawApplyID string) (string, apierror.ErrorResponse) {
	applyID, err := uuid.Parse(rawApplyID)
	if err != nil {
		return "", apierror.InvalidIDError
	}

	app, err := a.ApplicationRepo.FindByID(applyID)
	if err != nil {
		log.Errorf("failed to fetch application %s: %v", applyID, err)
		return "", apierror.InternalServerError
	}

	opp, err := a.OpportunityRepo.FindByID(oppID)
	if err != nil {
		log.Errorf("failed to fetch opportunity %s: %v", oppID, err)
		return "", apierror.InternalServerError
	}

	if apierr := a.OpportunityPolicy.CanReadApplication(app, opp, actor); apierr != nil {
		return "", apierr
	}

	if app.CVKey == "" {
		return "", apierror.CVNotFoundError
	}

	url, err := a.S3.PresignGet(ctx, app.CVKey, a.CVURLTTL)
	if err != nil {
		log.Errorf("failed to presign cv of application %s: %v", applyID, err)
		return "", apierror.StorageUnavailableError
	}
	return url, nil
}

func CVDownloadPath(oppID, applyID uuid.UUID) string {
	return fmt.Sprintf("/api/opportunities/%s/download-cv?apply_id=%s", oppID, applyID)
}
