package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils/apierror"
	"careerhub/cmd/internal/utils/validators"
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestGraduationRequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewGraduationService(repository.NewGraduationRepository(db), repository.NewAuditRepository(db), validators.New())

	user := seedUser(t, db, entity.RoleStudent)
	student := principalOf(user)
	req := &contract.GraduationRequestCreate{Year: 2025, Degree: "Ingeniería Informática", Thesis: "Planificación de rutas", GPA: 8.4}

	created, apierr := svc.Create(student, req)
	if apierr != nil {
		t.Fatalf("create: %v", apierr)
	}
	if created.Status != string(entity.ApprovalPending) {
		t.Fatalf("expected PENDING, got %s", created.Status)
	}

	if _, apierr = svc.Create(student, req); apierr != apierror.GraduationPendingError {
		t.Fatalf("expected GRADUATION_REQUEST_PENDING, got %v", apierr)
	}

	pending, apierr := svc.List("pendiente")
	if apierr != nil {
		t.Fatalf("list: %v", apierr)
	}
	if len(pending) != 1 || pending[0].Email != user.Email {
		t.Fatalf("expected the request joined with its user, got %+v", pending)
	}

	admin := adminPrincipal()
	id := uuid.MustParse(created.ID)
	approved, apierr := svc.Approve(admin, id)
	if apierr != nil {
		t.Fatalf("approve: %v", apierr)
	}
	if approved.Status != string(entity.ApprovalApproved) {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}

	var fresh entity.User
	if err := db.First(&fresh, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if fresh.Role != entity.RoleGraduate || fresh.Degree != req.Degree {
		t.Fatalf("expected graduate with degree, got %s/%s", fresh.Role, fresh.Degree)
	}

	if _, apierr = svc.Approve(admin, id); apierr != apierror.InvalidTransitionError {
		t.Fatalf("expected INVALID_TRANSITION, got %v", apierr)
	}

	var audits int64
	db.Model(&entity.AuditLog{}).Where("entity_type = ? AND entity_id = ?", entity.AuditEntityGraduationRequest, id).Count(&audits)
	if audits != 1 {
		t.Fatalf("expected one audit row, got %d", audits)
	}
}

func TestGraduationRequestValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGraduationService(repository.NewGraduationRepository(db), repository.NewAuditRepository(db), validators.New())

	graduate := principalOf(seedUser(t, db, entity.RoleGraduate))
	if _, apierr := svc.Create(graduate, &contract.GraduationRequestCreate{Year: 2025, Degree: "ADE", Thesis: "Finanzas"}); apierr != apierror.ForbiddenError {
		t.Fatalf("expected 403 for a graduate, got %v", apierr)
	}

	student := principalOf(seedUser(t, db, entity.RoleStudent))
	_, apierr := svc.Create(student, &contract.GraduationRequestCreate{Year: 1900, Degree: "ADE", Thesis: "Finanzas", GPA: 11})
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", apierr)
	}

	if _, apierr = svc.List("someday"); apierr != apierror.InvalidStatusError {
		t.Fatalf("expected invalid status, got %v", apierr)
	}
}
