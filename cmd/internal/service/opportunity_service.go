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
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type OpportunityRepository interface {
	FindByID(id uuid.UUID) (*entity.Opportunity, error)
	FindOwned(id, companyID uuid.UUID) (*entity.Opportunity, error)
	FindPublished(oppType *entity.OpportunityType) ([]*entity.Opportunity, error)
	Save(opp *entity.Opportunity) error
	DeleteOwned(id, companyID uuid.UUID) error
}

type OpportunityService struct {
	OpportunityRepo   OpportunityRepository
	S3                storage.S3Client
	OpportunityPolicy *policy.OpportunityPolicy
	Validate          *validator.Validate
}

func NewOpportunityService(
	oppRepo OpportunityRepository,
	s3 storage.S3Client,
	oppPolicy *policy.OpportunityPolicy,
	validate *validator.Validate,
) *OpportunityService {
	return &OpportunityService{
		OpportunityRepo:   oppRepo,
		S3:                s3,
		OpportunityPolicy: oppPolicy,
		Validate:          validate,
	}
}

// UpsertJob creates a job offer for the calling company, or edits one of
// its offers when req.ID is set. The bool is true on creation.
func (o *OpportunityService) UpsertJob(actor *entity.Principal, req *contract.JobOpportunityRequest) (*contract.OpportunityResponse, bool, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.LifecycleStatus = strings.ToUpper(req.LifecycleStatus)
	if err := o.Validate.Struct(req); err != nil {
		return nil, false, apierror.FromValidationError(err)
	}

	return o.upsert(actor, req.ID, entity.OpportunityJob, req.LifecycleStatus, func(opp *entity.Opportunity) {
		opp.Title = req.Title
		opp.Description = req.Description
		opp.Mode = req.Mode
		opp.Requirements = req.Requirements
		opp.ContactInfo = req.ContactInfo
		opp.Salary = req.Salary
		opp.Schedule = req.Schedule
	})
}

// UpsertTFG works like UpsertJob for TFG and internship offers.
func (o *OpportunityService) UpsertTFG(actor *entity.Principal, req *contract.TFGOpportunityRequest) (*contract.OpportunityResponse, bool, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Type = strings.ToUpper(req.Type)
	req.LifecycleStatus = strings.ToUpper(req.LifecycleStatus)
	if err := o.Validate.Struct(req); err != nil {
		return nil, false, apierror.FromValidationError(err)
	}

	return o.upsert(actor, req.ID, entity.OpportunityType(req.Type), req.LifecycleStatus, func(opp *entity.Opportunity) {
		opp.Title = req.Title
		opp.Description = req.Description
		opp.Mode = req.Mode
		opp.Requirements = req.Requirements
		opp.ContactInfo = req.ContactInfo
		opp.Duration = req.Duration
		opp.Remunerated = req.Remunerated
	})
}

// upsert creates or edits an opportunity. An empty oppType means a TFG on
// create and keeps the stored type on edit.
func (o *OpportunityService) upsert(
	actor *entity.Principal,
	rawID *string,
	oppType entity.OpportunityType,
	rawLifecycle string,
	apply func(opp *entity.Opportunity),
) (*contract.OpportunityResponse, bool, apierror.ErrorResponse) {
	now := utils.NowUTC()
	lifecycle, hasLifecycle := entity.ParseLifecycleStatus(rawLifecycle)

	family := oppType
	if family == "" {
		family = entity.OpportunityTFG
	}

	var opp *entity.Opportunity
	created := rawID == nil || *rawID == ""
	if created {
		if !hasLifecycle {
			lifecycle = entity.LifecycleActive
		}

		opp = &entity.Opportunity{
			CompanyID:       actor.ID,
			Type:            family,
			ApprovalStatus:  entity.ApprovalPending,
			LifecycleStatus: lifecycle,
			CreatedAt:       now,
		}
	} else {
		id, err := uuid.Parse(*rawID)
		if err != nil {
			return nil, false, apierror.InvalidIDError
		}

		found, apierr := o.fetchOwned(actor, id)
		if apierr != nil {
			return nil, false, apierr
		}

		// Jobs and TFG/internships are edited through their own endpoints
		if (found.Type == entity.OpportunityJob) != (family == entity.OpportunityJob) {
			return nil, false, apierror.InvalidOpportunityTypeError
		}

		// A rejected opportunity is always INACTIVE
		if found.ApprovalStatus == entity.ApprovalRejected && hasLifecycle && lifecycle == entity.LifecycleActive {
			return nil, false, apierror.RejectedActivationError
		}

		opp = found
		if oppType != "" {
			opp.Type = oppType
		}
		if hasLifecycle {
			opp.LifecycleStatus = lifecycle
		}
	}

	apply(opp)
	opp.UpdatedAt = now

	if err := o.OpportunityRepo.Save(opp); err != nil {
		log.Errorf("failed to save opportunity of company %s: %v", actor.ID, err)
		return nil, false, apierror.InternalServerError
	}
	return toOpportunityResponse(opp), created, nil
}

func (o *OpportunityService) Delete(actor *entity.Principal, req *contract.DeleteOpportunityRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := o.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	id, err := uuid.Parse(req.OpportunityID)
	if err != nil {
		return apierror.InvalidIDError
	}

	err = o.OpportunityRepo.DeleteOwned(id, actor.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apierror.OpportunityNotFoundError
	case errors.Is(err, repository.ErrHasApplications):
		return apierror.OpportunityHasApplicationsError
	case err != nil:
		log.Errorf("failed to delete opportunity %s: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (o *OpportunityService) UploadFlyer(ctx context.Context, actor *entity.Principal, id uuid.UUID, fileHeader *multipart.FileHeader) (*contract.FlyerResponse, apierror.ErrorResponse) {
	opp, apierr := o.fetchOwned(actor, id)
	if apierr != nil {
		return nil, apierr
	}

	data, apierr := checkFlyer(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	key, err := o.S3.UploadFile(ctx, storage.FlyerKey(opp.ID, fileHeader.Filename), data)
	if err != nil {
		log.Errorf("failed to upload flyer of opportunity %s: %v", opp.ID, err)
		return nil, apierror.StorageUnavailableError
	}

	opp.FlyerURL = o.S3.PublicURL(key)
	opp.UpdatedAt = utils.NowUTC()
	if err = o.OpportunityRepo.Save(opp); err != nil {
		log.Errorf("failed to save flyer of opportunity %s: %v", opp.ID, err)
		return nil, apierror.InternalServerError
	}
	return &contract.FlyerResponse{FlyerURL: opp.FlyerURL}, nil
}

// ListPublished returns approved and active opportunities. rawType filters
// by type when not empty.
func (o *OpportunityService) ListPublished(rawType string) ([]*contract.OpportunityResponse, apierror.ErrorResponse) {
	var filter *entity.OpportunityType
	if rawType != "" {
		oppType := entity.OpportunityType(strings.ToUpper(rawType))
		switch oppType {
		case entity.OpportunityTFG, entity.OpportunityInternship, entity.OpportunityJob:
			filter = &oppType
		default:
			return nil, apierror.InvalidOpportunityTypeError
		}
	}

	opps, err := o.OpportunityRepo.FindPublished(filter)
	if err != nil {
		log.Errorf("failed to list opportunities: %v", err)
		return nil, apierror.InternalServerError
	}
	return toOpportunityResponses(opps), nil
}

// Get returns one opportunity. actor is nil for anonymous callers.
func (o *OpportunityService) Get(actor *entity.Principal, id uuid.UUID) (*contract.OpportunityResponse, apierror.ErrorResponse) {
	opp, err := o.OpportunityRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch opportunity %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if apierr := o.OpportunityPolicy.CanSee(opp, actor); apierr != nil {
		return nil, apierr
	}
	return toOpportunityResponse(opp), nil
}

func (o *OpportunityService) fetchOwned(actor *entity.Principal, id uuid.UUID) (*entity.Opportunity, apierror.ErrorResponse) {
	opp, err := o.OpportunityRepo.FindOwned(id, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch opportunity %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if apierr := o.OpportunityPolicy.CanEdit(opp, actor); apierr != nil {
		return nil, apierr
	}
	return opp, nil
}
