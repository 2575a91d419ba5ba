package handler

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/service"
	"careerhub/cmd/internal/session"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	CreateUser(ctx context.Context, req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse)
	Login(ctx context.Context, req *contract.UserLoginRequest) (*service.UserLogin, apierror.ErrorResponse)
	Logout(ctx context.Context, accessToken string) apierror.ErrorResponse
	ConfirmSignup(ctx context.Context, req *contract.ConfirmSignupRequest) apierror.ErrorResponse
	ResendConfirmation(ctx context.Context, req *contract.ResendConfirmRequest) apierror.ErrorResponse
	Me(actor *entity.Principal) *contract.PrincipalResponse
}

type DefaultUserRoute struct {
	UserService UserService
	Sessions    *session.Manager
}

func NewUserDefault(userService UserService, sessions *session.Manager) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService, Sessions: sessions}
}

func (u *DefaultUserRoute) CreateUser(c echo.Context) error {
	var req contract.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.CreateUser(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, user)
}

func (u *DefaultUserRoute) CreateLogin(c echo.Context) error {
	var req contract.UserLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	login, apierr := u.UserService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	u.Sessions.SetCookie(c, session.UserCookie, login.IDToken, login.TTL)
	return c.JSON(http.StatusOK, login.Response)
}

func (u *DefaultUserRoute) Logout(c echo.Context) error {
	token := c.Request().Header.Get(echo.HeaderAuthorization)

	u.Sessions.ClearCookie(c, session.UserCookie)
	if apierr := u.UserService.Logout(c.Request().Context(), token); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (u *DefaultUserRoute) ConfirmSignup(c echo.Context) error {
	var req contract.ConfirmSignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	apierr := u.UserService.ConfirmSignup(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (u *DefaultUserRoute) ResendConfirmation(c echo.Context) error {
	var req contract.ResendConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	apierr := u.UserService.ResendConfirmation(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (u *DefaultUserRoute) Me(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}
	return c.JSON(http.StatusOK, u.UserService.Me(principal))
}
