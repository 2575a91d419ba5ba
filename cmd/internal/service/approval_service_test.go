package service

import (
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils/apierror"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func newApprovalService(db *gorm.DB, audit AuditRepository) *ApprovalService {
	return NewApprovalService(
		repository.NewOpportunityRepository(db),
		repository.NewCompanyRepository(db),
		audit,
		nil,
	)
}

func reloadOpportunity(t *testing.T, db *gorm.DB, opp *entity.Opportunity) *entity.Opportunity {
	t.Helper()
	var fresh entity.Opportunity
	if err := db.First(&fresh, "id = ?", opp.ID).Error; err != nil {
		t.Fatalf("reload opportunity: %v", err)
	}
	return &fresh
}

func TestRejectOpportunityShortReasonChangesNothing(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalPending, entity.LifecycleActive)
	svc := newApprovalService(db, repository.NewAuditRepository(db))

	// 19 characters: padding does not count and accents count once
	short := "   rechazo por falta d   "
	if got := len([]rune(strings.TrimSpace(short))); got != 19 {
		t.Fatalf("fixture has %d characters", got)
	}

	for _, r := range []string{short, "", "Descripción corta"} {
		_, apierr := svc.RejectOpportunity(adminPrincipal(), opp.ID, &contract.RejectRequest{RejectionReason: r})
		if apierr == nil || apierr.Code() != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %v", r, apierr)
		}
		if apierr != apierror.RejectionReasonTooShortError {
			t.Fatalf("expected the rejection reason error, got %v", apierr)
		}
	}

	fresh := reloadOpportunity(t, db, opp)
	if fresh.ApprovalStatus != entity.ApprovalPending || fresh.LifecycleStatus != entity.LifecycleActive {
		t.Fatalf("expected untouched opportunity, got %s/%s", fresh.ApprovalStatus, fresh.LifecycleStatus)
	}
	if n := countRows(t, db, &entity.AuditLog{}); n != 0 {
		t.Fatalf("expected no audit rows, got %d", n)
	}
}

func TestRejectOpportunityWritesOneAuditRow(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalPending, entity.LifecycleActive)
	svc := newApprovalService(db, repository.NewAuditRepository(db))
	admin := adminPrincipal()

	reason := "La oferta no incluye la remuneración"
	resp, apierr := svc.RejectOpportunity(admin, opp.ID, &contract.RejectRequest{RejectionReason: "  " + reason + " "})
	if apierr != nil {
		t.Fatalf("reject: %v", apierr)
	}
	if resp.ApprovalStatus != string(entity.ApprovalRejected) || resp.LifecycleStatus != string(entity.LifecycleInactive) {
		t.Fatalf("expected REJECTED/INACTIVE response, got %s/%s", resp.ApprovalStatus, resp.LifecycleStatus)
	}

	fresh := reloadOpportunity(t, db, opp)
	if fresh.ApprovalStatus != entity.ApprovalRejected || fresh.LifecycleStatus != entity.LifecycleInactive {
		t.Fatalf("expected REJECTED/INACTIVE row, got %s/%s", fresh.ApprovalStatus, fresh.LifecycleStatus)
	}
	if fresh.RejectionReason != reason {
		t.Fatalf("expected trimmed reason %q, got %q", reason, fresh.RejectionReason)
	}
	if fresh.ReviewedByID == nil || *fresh.ReviewedByID != admin.ID || fresh.ReviewedAt == 0 {
		t.Fatalf("expected reviewer %s, got %v at %d", admin.ID, fresh.ReviewedByID, fresh.ReviewedAt)
	}

	var logs []entity.AuditLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected exactly one audit row, got %d", len(logs))
	}

	entry := logs[0]
	if entry.Action != entity.AuditReject || entry.EntityType != entity.AuditEntityOpportunity || entry.EntityID != opp.ID {
		t.Fatalf("unexpected audit row %+v", entry)
	}
	if entry.ActorID != admin.ID || entry.CompanyID == nil || *entry.CompanyID != company.ID {
		t.Fatalf("unexpected audit actor/company %+v", entry)
	}

	var details map[string]string
	if err := json.Unmarshal(entry.Details, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details["title"] != opp.Title || details["reason"] != reason || details["previous_status"] != string(entity.ApprovalPending) {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestRejectOpportunitySurvivesAuditFailure(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalPending, entity.LifecycleActive)
	svc := newApprovalService(db, failingAuditRepo{})

	_, apierr := svc.RejectOpportunity(adminPrincipal(), opp.ID, &contract.RejectRequest{RejectionReason: "No cumple la normativa de prácticas"})
	if apierr != nil {
		t.Fatalf("expected success despite audit failure, got %v", apierr)
	}

	if fresh := reloadOpportunity(t, db, opp); fresh.ApprovalStatus != entity.ApprovalRejected {
		t.Fatalf("expected REJECTED, got %s", fresh.ApprovalStatus)
	}
}

func TestReviewRequiresPendingOpportunity(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, entity.ApprovalApproved)
	svc := newApprovalService(db, repository.NewAuditRepository(db))

	for _, status := range []entity.ApprovalStatus{entity.ApprovalApproved, entity.ApprovalRejected} {
		opp := seedOpportunity(t, db, company.ID, status, entity.LifecycleActive)

		if _, apierr := svc.ApproveOpportunity(adminPrincipal(), opp.ID); apierr != apierror.InvalidTransitionError {
			t.Fatalf("approve %s: expected INVALID_TRANSITION, got %v", status, apierr)
		}
		_, apierr := svc.RejectOpportunity(adminPrincipal(), opp.ID, &contract.RejectRequest{RejectionReason: "Motivo suficientemente largo"})
		if apierr != apierror.InvalidTransitionError {
			t.Fatalf("reject %s: expected INVALID_TRANSITION, got %v", status, apierr)
		}
	}

	if n := countRows(t, db, &entity.AuditLog{}); n != 0 {
		t.Fatalf("expected no audit rows, got %d", n)
	}
}

func TestReviewOpportunityPrincipalAndExistence(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalPending, entity.LifecycleActive)
	svc := newApprovalService(db, repository.NewAuditRepository(db))

	if _, apierr := svc.ApproveOpportunity(nil, opp.ID); apierr == nil || apierr.Code() != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %v", apierr)
	}

	if _, apierr := svc.ApproveOpportunity(adminPrincipal(), company.ID); apierr == nil || apierr.Code() != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown opportunity, got %v", apierr)
	}
}

func TestApproveOpportunity(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalPending, entity.LifecycleInactive)
	audit := repository.NewAuditRepository(db)
	svc := newApprovalService(db, audit)

	resp, apierr := svc.ApproveOpportunity(adminPrincipal(), opp.ID)
	if apierr != nil {
		t.Fatalf("approve: %v", apierr)
	}
	if resp.ApprovalStatus != string(entity.ApprovalApproved) || resp.LifecycleStatus != string(entity.LifecycleActive) {
		t.Fatalf("expected APPROVED/ACTIVE, got %s/%s", resp.ApprovalStatus, resp.LifecycleStatus)
	}

	trail, apierr := svc.AuditTrail(string(entity.AuditEntityOpportunity), opp.ID)
	if apierr != nil {
		t.Fatalf("audit trail: %v", apierr)
	}
	if len(trail) != 1 || trail[0].Action != string(entity.AuditApprove) {
		t.Fatalf("expected one APPROVE entry, got %+v", trail)
	}

	pending, apierr := svc.PendingOpportunities()
	if apierr != nil {
		t.Fatalf("pending: %v", apierr)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending opportunities, got %d", len(pending))
	}
}

func TestRejectCompany(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, entity.ApprovalPending)
	svc := newApprovalService(db, repository.NewAuditRepository(db))

	if _, apierr := svc.RejectCompany(adminPrincipal(), company.ID, &contract.RejectRequest{RejectionReason: "corto"}); apierr != apierror.RejectionReasonTooShortError {
		t.Fatalf("expected short reason error, got %v", apierr)
	}

	pending, _ := svc.PendingCompanies()
	if len(pending) != 1 {
		t.Fatalf("expected one pending company, got %d", len(pending))
	}

	resp, apierr := svc.RejectCompany(adminPrincipal(), company.ID, &contract.RejectRequest{RejectionReason: "Datos fiscales incompletos o erróneos"})
	if apierr != nil {
		t.Fatalf("reject company: %v", apierr)
	}
	if resp.ApprovalStatus != string(entity.ApprovalRejected) {
		t.Fatalf("expected REJECTED, got %s", resp.ApprovalStatus)
	}

	trail, _ := svc.AuditTrail(string(entity.AuditEntityCompany), company.ID)
	if len(trail) != 1 || trail[0].Action != string(entity.AuditReject) {
		t.Fatalf("expected one REJECT entry, got %+v", trail)
	}

	if _, apierr = svc.ApproveCompany(adminPrincipal(), company.ID); apierr != apierror.InvalidTransitionError {
		t.Fatalf("expected INVALID_TRANSITION, got %v", apierr)
	}
}

func TestAuditTrailRejectsUnknownEntityType(t *testing.T) {
	db := newTestDB(t)
	svc := newApprovalService(db, repository.NewAuditRepository(db))

	if _, apierr := svc.AuditTrail("INVOICE", seedCompany(t, db, entity.ApprovalPending).ID); apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", apierr)
	}
}
