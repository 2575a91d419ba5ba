package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/events"
	"careerhub/cmd/internal/infrastructure/aws/websocket"
	"careerhub/cmd/internal/utils"
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type fakeGateway struct {
	mu      sync.Mutex
	posted  map[string][]contract.EventType
	deleted []string
	gone    map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{posted: make(map[string][]contract.EventType), gone: make(map[string]bool)}
}

func (g *fakeGateway) PostToConnection(ctx context.Context, connID string, data any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gone[connID] {
		return websocket.ErrGone
	}
	msg := data.(*contract.OutgoingSocketMessage)
	g.posted[connID] = append(g.posted[connID], msg.Type)
	return nil
}

func (g *fakeGateway) DeleteConnection(ctx context.Context, connID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, connID)
	return nil
}

func (g *fakeGateway) events(connID string) []contract.EventType {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.posted[connID]
}

func TestWebSocketDispatch(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	svc := NewWebSocketService(repository.NewConnectionRepository(db), gateway)

	company := companyPrincipal(seedCompany(t, db, entity.ApprovalApproved))
	company.ExpiresAt = utils.NowUTC() + 60_000
	for _, connID := range []string{"alive", "gone"} {
		if apierr := svc.RegisterConnection(company, connID); apierr != nil {
			t.Fatalf("register %s: %v", connID, apierr)
		}
	}
	if apierr := svc.RegisterConnection(company, ""); apierr == nil {
		t.Fatal("expected an error without connection id")
	}

	gateway.gone["gone"] = true
	svc.Dispatch(context.Background(), company.ID, &events.OpportunityReviewed{
		OpportunityResponse: &contract.OpportunityResponse{ApprovalStatus: string(entity.ApprovalRejected)},
	})

	got := gateway.events("alive")
	if len(got) != 1 || got[0] != contract.EventOpportunityRejected {
		t.Fatalf("expected one OPPORTUNITY_REJECTED event, got %v", got)
	}
	if n := countRows(t, db, &entity.Connection{}); n != 1 {
		t.Fatalf("expected the gone connection to be forgotten, got %d rows", n)
	}

	svc.HandleMessage(context.Background(), &contract.IncomingSocketMessage{Type: contract.EventPing}, "alive")
	got = gateway.events("alive")
	if got[len(got)-1] != contract.EventAck {
		t.Fatalf("expected ACK after ping, got %v", got)
	}
}

func TestWebSocketCleanupStale(t *testing.T) {
	db := newTestDB(t)
	gateway := newFakeGateway()
	svc := NewWebSocketService(repository.NewConnectionRepository(db), gateway)

	now := utils.NowUTC()
	stale := &entity.Connection{
		ConnectionID:    "stale",
		PrincipalID:     uuid.New(),
		Role:            entity.RoleStudent,
		ExpiresAt:       now + 60_000,
		LastHeartbeatAt: now - entity.HeartbeatPeriodMillis - entity.HeartbeatToleranceMillis - 1,
		CreatedAt:       now,
	}
	fresh := &entity.Connection{
		ConnectionID:    "fresh",
		PrincipalID:     uuid.New(),
		Role:            entity.RoleStudent,
		ExpiresAt:       now + 60_000,
		LastHeartbeatAt: now,
		CreatedAt:       now,
	}
	for _, conn := range []*entity.Connection{stale, fresh} {
		if err := db.Create(conn).Error; err != nil {
			t.Fatalf("seed connection: %v", err)
		}
	}

	if n := svc.CleanupStale(context.Background()); n != 1 {
		t.Fatalf("expected one stale connection, got %d", n)
	}
	if got := gateway.events("stale"); len(got) != 1 || got[0] != contract.EventSessionExpired {
		t.Fatalf("expected SESSION_EXPIRED, got %v", got)
	}
	if len(gateway.deleted) != 1 || gateway.deleted[0] != "stale" {
		t.Fatalf("expected the gateway to drop the stale connection, got %v", gateway.deleted)
	}
}
