package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	cognitoclient "careerhub/cmd/internal/infrastructure/aws/cognito"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id uuid.UUID) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	FindActiveBySub(sub string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

// UserLogin carries the provider tokens back to the handler, which turns
// the ID token into the user_session cookie.
type UserLogin struct {
	Response *contract.UserLoginResponse
	IDToken  string
	TTL      time.Duration
}

type UserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Cognito  cognitoclient.CognitoInterface

	// IsAdmin decides which sign ups receive the admin role.
	IsAdmin func(email string) bool
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, cogClient cognitoclient.CognitoInterface, isAdmin func(string) bool) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Validate: validate,
		Cognito:  cogClient,
		IsAdmin:  isAdmin,
	}
}

// CreateUser creates a new user on Cognito (as well as in our database),
// and sends a verification code to the user's email address.
func (u *UserService) CreateUser(ctx context.Context, req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Email = strings.ToLower(req.Email)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.IDPExistingEmailError
	}

	cogUser := &cognitoclient.User{Email: req.Email, Password: req.Password, Name: req.FullName}
	sub, apierr, revert := handleUserSignup(ctx, u.Cognito, cogUser)
	if apierr != nil {
		return nil, apierr
	}

	// This is our user, in our database <3
	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:       sub,
		FullName:      req.FullName,
		Email:         req.Email,
		EmailVerified: false,
		Role:          u.roleFor(req.Email),
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err = u.UserRepo.Save(user); err != nil {
		revert()
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

func (u *UserService) Login(ctx context.Context, req *contract.UserLoginRequest) (*UserLogin, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	if !user.Active {
		return nil, apierror.ForbiddenError
	}

	credentials := &cognitoclient.UserLogin{
		Email:    req.Email,
		Password: req.Password,
	}

	auth, err := u.Cognito.SignIn(ctx, credentials)
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}

	return &UserLogin{
		Response: &contract.UserLoginResponse{AccessToken: auth.AccessToken, IDToken: auth.IDToken},
		IDToken:  auth.IDToken,
		TTL:      time.Duration(auth.ExpiresIn) * time.Second,
	}, nil
}

// Logout revokes every token of the user when an access token is given.
func (u *UserService) Logout(ctx context.Context, accessToken string) apierror.ErrorResponse {
	accessToken = utils.SanitizeToken(accessToken)
	if accessToken == "" {
		return nil
	}

	if err := u.Cognito.GlobalSignOut(ctx, accessToken); err != nil {
		return utils.MapCognitoError(err)
	}
	return nil
}

func (u *UserService) ConfirmSignup(ctx context.Context, req *contract.ConfirmSignupRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return apierror.InternalServerError
	}

	if user == nil {
		return apierror.IDPUserNotFoundError
	}

	if user.EmailVerified {
		return apierror.UserAlreadyConfirmedError
	}

	confirms := &cognitoclient.UserConfirmation{
		Email: req.Email,
		Code:  req.Code,
	}

	if err = u.Cognito.ConfirmAccount(ctx, confirms); err != nil {
		return utils.MapCognitoError(err)
	}

	user.EmailVerified = true
	user.UpdatedAt = utils.NowUTC()
	if err = u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to update user (%s) verified status: %v", user.ID, err)
	}
	return nil
}

func (u *UserService) ResendConfirmation(ctx context.Context, req *contract.ResendConfirmRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to find user (%s) by email: %v", req.Email, err)
		return apierror.InternalServerError
	}

	if user == nil {
		return apierror.IDPUserNotFoundError
	}

	if user.EmailVerified {
		return apierror.UserAlreadyConfirmedError
	}

	if err = u.Cognito.ResendConfirmation(ctx, req.Email); err != nil {
		return utils.MapCognitoError(err)
	}
	return nil
}

func (u *UserService) Me(actor *entity.Principal) *contract.PrincipalResponse {
	return toPrincipalResponse(actor)
}

func (u *UserService) roleFor(email string) entity.Role {
	if u.IsAdmin != nil && u.IsAdmin(email) {
		return entity.RoleAdmin
	}
	return entity.RoleStudent
}

func handleUserSignup(ctx context.Context, cogClient cognitoclient.CognitoInterface, req *cognitoclient.User) (string, apierror.ErrorResponse, func()) {
	revert := func() {
		if err := cogClient.DeleteUser(context.Background(), req.Email); err != nil {
			log.Errorf("failed to revert cognito sign up of %s: %v", req.Email, err)
		}
	}

	sub, err := cogClient.SignUp(ctx, req)
	if err != nil {
		return "", utils.MapCognitoError(err), revert
	}
	return sub, nil, revert
}
