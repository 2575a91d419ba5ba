package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type ProfileRepository interface {
	FindByID(id uuid.UUID) (*entity.User, error)
	Save(user *entity.User) error
}

type ProfileService struct {
	UserRepo ProfileRepository
	Validate *validator.Validate
}

func NewProfileService(userRepo ProfileRepository, validate *validator.Validate) *ProfileService {
	return &ProfileService{
		UserRepo: userRepo,
		Validate: validate,
	}
}

func (p *ProfileService) Get(actor *entity.Principal) (*contract.UserResponse, apierror.ErrorResponse) {
	user, apierr := p.fetchUser(actor)
	if apierr != nil {
		return nil, apierr
	}
	return toUserResponse(user), nil
}

func (p *ProfileService) Update(actor *entity.Principal, req *contract.UpdateProfileRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := p.fetchUser(actor)
	if apierr != nil {
		return nil, apierr
	}

	updater := &profileUpdater{}
	updater.setString(req.FullName, &user.FullName)
	updater.setString(req.Phone, &user.Phone)
	updater.setString(req.Degree, &user.Degree)
	updater.setString(req.Bio, &user.Bio)

	if updater.dirty {
		user.UpdatedAt = utils.NowUTC()
		if err := p.UserRepo.Save(user); err != nil {
			log.Errorf("failed to update profile of %s: %v", user.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toUserResponse(user), nil
}

func (p *ProfileService) fetchUser(actor *entity.Principal) (*entity.User, apierror.ErrorResponse) {
	if actor.Role == entity.RoleCompany {
		return nil, apierror.ForbiddenError
	}

	user, err := p.UserRepo.FindByID(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	return user, nil
}
