package service

import (
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/policy"
	"careerhub/cmd/internal/session"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type CompanyReader interface {
	FindByID(id uuid.UUID) (*entity.Company, error)
}

type UserReader interface {
	FindActiveBySub(sub string) (*entity.User, error)
}

// Credentials are the raw identity proofs found on a request.
type Credentials struct {
	CompanySession string
	IDToken        string
}

// IdentityService turns request credentials into one Principal, whatever
// kind of account is behind them.
type IdentityService struct {
	CompanyRepo   CompanyReader
	UserRepo      UserReader
	Sessions      *session.Manager
	Tokens        utils.TokenValidator
	CompanyPolicy *policy.CompanyPolicy

	// DevActorID impersonates an administrator on requests without
	// credentials. Must stay uuid.Nil in production.
	DevActorID uuid.UUID
}

func NewIdentityService(
	companyRepo CompanyReader,
	userRepo UserReader,
	sessions *session.Manager,
	tokens utils.TokenValidator,
	companyPolicy *policy.CompanyPolicy,
	devActorID uuid.UUID,
) *IdentityService {
	return &IdentityService{
		CompanyRepo:   companyRepo,
		UserRepo:      userRepo,
		Sessions:      sessions,
		Tokens:        tokens,
		CompanyPolicy: companyPolicy,
		DevActorID:    devActorID,
	}
}

// Resolve returns (nil, nil) when the request carries no credentials at all.
func (s *IdentityService) Resolve(creds *Credentials) (*entity.Principal, apierror.ErrorResponse) {
	if creds.CompanySession != "" {
		return s.resolveCompany(creds.CompanySession)
	}

	if creds.IDToken != "" {
		return s.resolveUser(creds.IDToken)
	}

	if s.DevActorID != uuid.Nil {
		return &entity.Principal{
			ID:        s.DevActorID,
			Role:      entity.RoleAdmin,
			Verified:  false,
			Name:      "development actor",
			ExpiresAt: utils.NowUTC() + time.Hour.Milliseconds(),
		}, nil
	}
	return nil, nil
}

func (s *IdentityService) resolveCompany(token string) (*entity.Principal, apierror.ErrorResponse) {
	claims, err := s.Sessions.Parse(token)
	if err != nil {
		return nil, apierror.UnauthorizedError
	}

	company, err := s.CompanyRepo.FindByID(claims.CompanyID)
	if err != nil {
		log.Errorf("failed to fetch session company %s: %v", claims.CompanyID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := s.CompanyPolicy.CanAct(company); apierr != nil {
		return nil, apierr
	}

	return &entity.Principal{
		ID:        company.ID,
		Role:      entity.RoleCompany,
		Verified:  true,
		Email:     company.Email,
		Name:      company.Name,
		ExpiresAt: claims.ExpiresAt.UnixMilli(),
	}, nil
}

func (s *IdentityService) resolveUser(token string) (*entity.Principal, apierror.ErrorResponse) {
	if s.Tokens == nil {
		return nil, apierror.UnauthorizedError
	}

	data, err := s.Tokens.ValidateToken(token)
	if err != nil {
		return nil, apierror.UnauthorizedError
	}

	user, err := s.UserRepo.FindActiveBySub(data.Sub)
	if err != nil {
		log.Errorf("failed to fetch user by sub %s: %v", data.Sub, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.UnauthorizedError
	}

	return &entity.Principal{
		ID:        user.ID,
		Role:      user.Role,
		Verified:  true,
		Email:     user.Email,
		Name:      user.FullName,
		ExpiresAt: data.Exp * 1000, // "exp" is stored in seconds, our app uses millis
	}, nil
}
