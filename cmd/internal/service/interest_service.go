package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/policy"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type InterestRepository interface {
	Create(interest *entity.Interest) error
	Delete(userID, opportunityID uuid.UUID) (bool, error)
	FindByUser(userID uuid.UUID) ([]*entity.Interest, error)
}

type InterestService struct {
	InterestRepo      InterestRepository
	OpportunityRepo   OpportunityRepository
	OpportunityPolicy *policy.OpportunityPolicy
}

func NewInterestService(interestRepo InterestRepository, oppRepo OpportunityRepository, oppPolicy *policy.OpportunityPolicy) *InterestService {
	return &InterestService{
		InterestRepo:      interestRepo,
		OpportunityRepo:   oppRepo,
		OpportunityPolicy: oppPolicy,
	}
}

func (i *InterestService) Manifest(actor *entity.Principal, oppID uuid.UUID) (*contract.InterestResponse, apierror.ErrorResponse) {
	opp, err := i.OpportunityRepo.FindByID(oppID)
	if err != nil {
		log.Errorf("failed to fetch opportunity %s: %v", oppID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := i.OpportunityPolicy.CanEngage(opp, actor); apierr != nil {
		return nil, apierr
	}

	interest := &entity.Interest{
		UserID:        actor.ID,
		OpportunityID: oppID,
		CreatedAt:     utils.NowUTC(),
	}

	err = i.InterestRepo.Create(interest)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apierror.AlreadyInterestedError
	}

	if err != nil {
		log.Errorf("failed to store interest of %s in %s: %v", actor.ID, oppID, err)
		return nil, apierror.InternalServerError
	}

	return &contract.InterestResponse{
		OpportunityID: oppID.String(),
		Opportunity:   toOpportunityResponse(opp),
		CreatedAt:     utils.FormatEpoch(interest.CreatedAt),
	}, nil
}

// Withdraw removes the interest of actor. Withdrawing an interest that was
// never manifested succeeds without changes.
func (i *InterestService) Withdraw(actor *entity.Principal, oppID uuid.UUID) apierror.ErrorResponse {
	if !actor.IsIndividual() {
		return apierror.ForbiddenError
	}

	if _, err := i.InterestRepo.Delete(actor.ID, oppID); err != nil {
		log.Errorf("failed to withdraw interest of %s in %s: %v", actor.ID, oppID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (i *InterestService) ListMine(actor *entity.Principal) ([]*contract.InterestResponse, apierror.ErrorResponse) {
	interests, err := i.InterestRepo.FindByUser(actor.ID)
	if err != nil {
		log.Errorf("failed to list interests of %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.InterestResponse, len(interests))
	for idx, interest := range interests {
		resp[idx] = &contract.InterestResponse{
			OpportunityID: interest.OpportunityID.String(),
			CreatedAt:     utils.FormatEpoch(interest.CreatedAt),
		}
		if interest.Opportunity != nil {
			resp[idx].Opportunity = toOpportunityResponse(interest.Opportunity)
		}
	}
	return resp, nil
}
