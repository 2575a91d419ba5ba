package handler

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/infrastructure/aws/websocket"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type WebSocketService interface {
	RegisterConnection(actor *entity.Principal, connID string) apierror.ErrorResponse
	RemoveConnection(connectionID string)
	HandleMessage(ctx context.Context, msg *contract.IncomingSocketMessage, connID string)
}

type DefaultWSRoute struct {
	WSService WebSocketService
}

func NewWSDefault(wsService WebSocketService) *DefaultWSRoute {
	return &DefaultWSRoute{WSService: wsService}
}

func (h *DefaultWSRoute) HandleConnect(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if apierr := h.WSService.RegisterConnection(principal, connID); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (h *DefaultWSRoute) HandleDisconnect(c echo.Context) error {
	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if connID != "" {
		h.WSService.RemoveConnection(connID)
	}
	return c.NoContent(http.StatusOK)
}

func (h *DefaultWSRoute) HandleMessage(c echo.Context) error {
	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if connID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError(websocket.HeaderConnectionID))
	}

	var msg contract.IncomingSocketMessage
	if err := c.Bind(&msg); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	h.WSService.HandleMessage(c.Request().Context(), &msg, connID)
	return c.NoContent(http.StatusOK)
}
