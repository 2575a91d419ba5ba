package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	cognitoclient "careerhub/cmd/internal/infrastructure/aws/cognito"
	"careerhub/cmd/internal/utils/apierror"
	"careerhub/cmd/internal/utils/validators"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type fakeCognito struct {
	mu      sync.Mutex
	signUp  error
	signUps []string
	deleted []string
}

func (f *fakeCognito) SignUp(_ context.Context, user *cognitoclient.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUp != nil {
		return "", f.signUp
	}
	f.signUps = append(f.signUps, user.Email)
	return "sub-" + user.Email, nil
}

func (f *fakeCognito) SignIn(context.Context, *cognitoclient.UserLogin) (*cognitoclient.AuthCreate, error) {
	return &cognitoclient.AuthCreate{IDToken: "id", AccessToken: "access", ExpiresIn: 3600}, nil
}

func (f *fakeCognito) GlobalSignOut(context.Context, string) error { return nil }

func (f *fakeCognito) ConfirmAccount(context.Context, *cognitoclient.UserConfirmation) error {
	return nil
}

func (f *fakeCognito) ResendConfirmation(context.Context, string) error { return nil }

func (f *fakeCognito) DeleteUser(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, email)
	return nil
}

func (f *fakeCognito) deletedEmails() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// brokenSaveRepo behaves like the real repository but cannot persist.
type brokenSaveRepo struct {
	UserRepository
}

func (brokenSaveRepo) Save(*entity.User) error { return errors.New("disk full") }

func signupRequest(email string) *contract.CreateUserRequest {
	return &contract.CreateUserRequest{FullName: "Lucía Pérez", Email: email, Password: "Sup3r$ecret"}
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	cognito := &fakeCognito{}
	svc := NewUserService(repository.NewUserRepository(db), validators.New(), cognito, func(email string) bool {
		return strings.HasSuffix(email, "@admin.uni.test")
	})

	user, apierr := svc.CreateUser(context.Background(), signupRequest("Lucia@Uni.test"))
	if apierr != nil {
		t.Fatalf("signup: %v", apierr)
	}
	if user.Email != "lucia@uni.test" || user.Role != string(entity.RoleStudent) || user.EmailVerified {
		t.Fatalf("unexpected user %+v", user)
	}

	admin, apierr := svc.CreateUser(context.Background(), signupRequest("jefa@admin.uni.test"))
	if apierr != nil || admin.Role != string(entity.RoleAdmin) {
		t.Fatalf("expected an admin sign up, got %+v (%v)", admin, apierr)
	}

	if _, apierr = svc.CreateUser(context.Background(), signupRequest("lucia@uni.test")); apierr != apierror.IDPExistingEmailError {
		t.Fatalf("expected the duplicate email to be refused, got %v", apierr)
	}
	if got := countRows(t, db, &entity.User{}); got != 2 {
		t.Fatalf("expected 2 users, got %d", got)
	}
}

func TestCreateUserRevertsProviderSignup(t *testing.T) {
	db := newTestDB(t)
	cognito := &fakeCognito{}
	repo := brokenSaveRepo{UserRepository: repository.NewUserRepository(db)}
	svc := NewUserService(repo, validators.New(), cognito, nil)

	if _, apierr := svc.CreateUser(context.Background(), signupRequest("lucia@uni.test")); apierr != apierror.InternalServerError {
		t.Fatalf("expected 500 when the user cannot be stored, got %v", apierr)
	}
	if deleted := cognito.deletedEmails(); len(deleted) != 1 || deleted[0] != "lucia@uni.test" {
		t.Fatalf("expected the provider account to be deleted, got %v", deleted)
	}
}

func TestCreateUserProviderErrors(t *testing.T) {
	db := newTestDB(t)
	cognito := &fakeCognito{signUp: &types.UsernameExistsException{Message: aws.String("exists")}}
	svc := NewUserService(repository.NewUserRepository(db), validators.New(), cognito, nil)

	if _, apierr := svc.CreateUser(context.Background(), signupRequest("lucia@uni.test")); apierr != apierror.IDPExistingEmailError {
		t.Fatalf("expected the provider conflict to be mapped, got %v", apierr)
	}
	if len(cognito.deletedEmails()) != 0 {
		t.Fatal("nothing should be reverted when the provider refused the sign up")
	}
	if got := countRows(t, db, &entity.User{}); got != 0 {
		t.Fatalf("expected no local user, got %d", got)
	}

	weak := signupRequest("otro@uni.test")
	weak.Password = "password"
	if _, apierr := svc.CreateUser(context.Background(), weak); apierr == nil || apierr.Code() != 400 {
		t.Fatalf("expected 400 for a weak password, got %v", apierr)
	}
}
