package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/events"
	"careerhub/cmd/internal/infrastructure/aws/websocket"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type ConnectionRepository interface {
	Save(conn *entity.Connection) error
	Delete(connID string) error
	FindByPrincipalID(principalID uuid.UUID) ([]string, error)
	FindStale(now int64, hbLimit int64) ([]*entity.Connection, error)
	UpdateHeartbeat(connID string, now int64) error
}

// EventDispatcher pushes realtime events to every connection of a principal.
type EventDispatcher interface {
	Dispatch(ctx context.Context, principalID uuid.UUID, evt events.SocketEvent)
}

type WebSocketService struct {
	ConnRepo ConnectionRepository
	Gateway  websocket.GatewayClient
}

func NewWebSocketService(repo ConnectionRepository, gateway websocket.GatewayClient) *WebSocketService {
	return &WebSocketService{
		ConnRepo: repo,
		Gateway:  gateway,
	}
}

func (s *WebSocketService) RegisterConnection(actor *entity.Principal, connectionID string) apierror.ErrorResponse {
	if connectionID == "" {
		return apierror.NewSimple(400, "Missing %s header", websocket.HeaderConnectionID)
	}

	now := utils.NowUTC()
	expiresAt := actor.ExpiresAt
	if expiresAt == 0 {
		expiresAt = now + time.Hour.Milliseconds()
	}

	conn := &entity.Connection{
		ConnectionID:    connectionID,
		PrincipalID:     actor.ID,
		Role:            actor.Role,
		ExpiresAt:       expiresAt,
		LastHeartbeatAt: now, // Avoid users getting disconnected immediately
		CreatedAt:       now,
	}

	if err := s.ConnRepo.Save(conn); err != nil {
		log.Errorf("failed to save connection: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *WebSocketService) RemoveConnection(connectionID string) {
	// We don't return error here because if it fails, it's not the client's fault
	_ = s.ConnRepo.Delete(connectionID)
}

func (s *WebSocketService) HandleMessage(ctx context.Context, msg *contract.IncomingSocketMessage, connID string) {
	switch msg.Type {
	case contract.EventPing:
		s.handlePing(ctx, connID)
	}
}

func (s *WebSocketService) Dispatch(ctx context.Context, principalID uuid.UUID, evt events.SocketEvent) {
	conns, err := s.ConnRepo.FindByPrincipalID(principalID)
	if err != nil {
		log.Errorf("failed to fetch connections for %s: %v", principalID, err)
		return
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}

	for _, connID := range conns {
		// One stale connection must not block the others
		s.post(ctx, connID, envelope)
	}
}

// TerminateConnections sends a "poison pill" message and then disconnects
// every connection of the principal.
func (s *WebSocketService) TerminateConnections(ctx context.Context, principalID uuid.UUID, ck *events.ConnectionKill) {
	conns, err := s.ConnRepo.FindByPrincipalID(principalID)
	if err != nil {
		log.Errorf("failed to fetch connections for %s: %v", principalID, err)
		return
	}

	msg := &contract.OutgoingSocketMessage{
		Type: ck.GetType(),
		Data: ck,
	}

	for _, connID := range conns {
		s.post(ctx, connID, msg)
		_ = s.Gateway.DeleteConnection(ctx, connID)
		_ = s.ConnRepo.Delete(connID)
	}
}

// CleanupStale drops every connection that expired or stopped sending
// heartbeats. It returns how many were dropped.
func (s *WebSocketService) CleanupStale(ctx context.Context) int {
	now := utils.NowUTC()
	hbLimit := entity.HeartbeatPeriodMillis + entity.HeartbeatToleranceMillis

	conns, err := s.ConnRepo.FindStale(now, hbLimit)
	if err != nil {
		log.Errorf("failed to fetch stale connections: %v", err)
		return 0
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: contract.EventSessionExpired,
	}

	for _, conn := range conns {
		// Notify Client (So they know NOT to try reconnecting)
		s.post(ctx, conn.ConnectionID, envelope)

		// Tell AWS we are dropping the connection
		_ = s.Gateway.DeleteConnection(ctx, conn.ConnectionID)

		// Remove from our DB
		_ = s.ConnRepo.Delete(conn.ConnectionID)
	}
	return len(conns)
}

func (s *WebSocketService) handlePing(ctx context.Context, connID string) {
	err := s.ConnRepo.UpdateHeartbeat(connID, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to update heartbeat: %v", err)
		return
	}

	s.post(ctx, connID, &contract.OutgoingSocketMessage{
		Type: contract.EventAck,
	})
}

func (s *WebSocketService) post(ctx context.Context, connID string, msg *contract.OutgoingSocketMessage) {
	err := s.Gateway.PostToConnection(ctx, connID, msg)
	if errors.Is(err, websocket.ErrGone) {
		_ = s.ConnRepo.Delete(connID)
		return
	}

	if err != nil {
		log.Warnf("failed to push to connection %s: %v", connID, err)
	}
}
