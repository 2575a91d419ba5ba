package cognitoclient

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// User is the default user struct for all basic Cognito operations.
type User struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserConfirmation is the default structure for approving e-mail verification.
type UserConfirmation struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// UserLogin defines the standard structure for logging in to the application.
type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthCreate represents the response of Cognito sign in approval.
type AuthCreate struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int32  `json:"expires_in"`
}

type CognitoInterface interface {
	SignUp(ctx context.Context, user *User) (string, error)
	SignIn(ctx context.Context, user *UserLogin) (*AuthCreate, error)
	GlobalSignOut(ctx context.Context, accessToken string) error
	ConfirmAccount(ctx context.Context, user *UserConfirmation) error
	ResendConfirmation(ctx context.Context, email string) error
	DeleteUser(ctx context.Context, email string) error
}

type cognitoClient struct {
	client      *cognito.Client
	appClientID string
	poolID      string
}

func InitCognitoClient(ctx context.Context, region, poolID, appClientID string) (CognitoInterface, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &cognitoClient{
		client:      cognito.NewFromConfig(cfg),
		appClientID: appClientID,
		poolID:      poolID,
	}, nil
}

// SignUp creates a new user row on Cognito and return its "sub" (the UUID)
func (c *cognitoClient) SignUp(ctx context.Context, user *User) (string, error) {
	out, err := c.client.SignUp(ctx, &cognito.SignUpInput{
		ClientId: aws.String(c.appClientID),
		Username: aws.String(user.Email),
		Password: aws.String(user.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(user.Email)},
			{Name: aws.String("name"), Value: aws.String(user.Name)},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

// GlobalSignOut signs out all the user session in all devices.
// In other words, it invalidates all the existing JWT tokens
func (c *cognitoClient) GlobalSignOut(ctx context.Context, accessToken string) error {
	_, err := c.client.GlobalSignOut(ctx, &cognito.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	return err
}

// ConfirmAccount is used to verify the user's e-mail address
func (c *cognitoClient) ConfirmAccount(ctx context.Context, user *UserConfirmation) error {
	_, err := c.client.ConfirmSignUp(ctx, &cognito.ConfirmSignUpInput{
		Username:         aws.String(user.Email),
		ConfirmationCode: aws.String(user.Code),
		ClientId:         aws.String(c.appClientID),
	})
	return err
}

// ResendConfirmation resends the verification code to the provided e-mail
func (c *cognitoClient) ResendConfirmation(ctx context.Context, email string) error {
	_, err := c.client.ResendConfirmationCode(ctx, &cognito.ResendConfirmationCodeInput{
		Username: aws.String(email),
		ClientId: aws.String(c.appClientID),
	})
	return err
}

func (c *cognitoClient) SignIn(ctx context.Context, user *UserLogin) (*AuthCreate, error) {
	result, err := c.client.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": user.Email,
			"PASSWORD": user.Password,
		},
		ClientId: aws.String(c.appClientID),
	})
	if err != nil {
		return nil, err
	}

	auth := result.AuthenticationResult
	if auth == nil {
		// A challenge (MFA, new password) is pending, which this API does not drive.
		return nil, errors.New("cognito returned a challenge instead of tokens")
	}
	return &AuthCreate{
		IDToken:     aws.ToString(auth.IdToken),
		AccessToken: aws.ToString(auth.AccessToken),
		ExpiresIn:   auth.ExpiresIn,
	}, nil
}

// DeleteUser removes a user from the pool. Used to revert a sign up whose
// local row could not be stored.
func (c *cognitoClient) DeleteUser(ctx context.Context, email string) error {
	_, err := c.client.AdminDeleteUser(ctx, &cognito.AdminDeleteUserInput{
		UserPoolId: aws.String(c.poolID),
		Username:   aws.String(email),
	})
	return err
}
