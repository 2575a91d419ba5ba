package service

import (
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/policy"
	"careerhub/cmd/internal/utils/apierror"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func newInterestService(db *gorm.DB) *InterestService {
	return NewInterestService(
		repository.NewInterestRepository(db),
		repository.NewOpportunityRepository(db),
		policy.NewOpportunityPolicy(),
	)
}

func TestManifestInterest(t *testing.T) {
	db := newTestDB(t)
	svc := newInterestService(db)

	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalApproved, entity.LifecycleActive)
	graduate := principalOf(seedUser(t, db, entity.RoleGraduate))

	resp, apierr := svc.Manifest(graduate, opp.ID)
	if apierr != nil {
		t.Fatalf("manifest: %v", apierr)
	}
	if resp.OpportunityID != opp.ID.String() {
		t.Fatalf("expected interest in %s, got %s", opp.ID, resp.OpportunityID)
	}

	if _, apierr = svc.Manifest(graduate, opp.ID); apierr != apierror.AlreadyInterestedError {
		t.Fatalf("expected ALREADY_INTERESTED, got %v", apierr)
	}

	mine, apierr := svc.ListMine(graduate)
	if apierr != nil || len(mine) != 1 {
		t.Fatalf("expected one interest, got %d (%v)", len(mine), apierr)
	}
}

func TestManifestInterestRequiresOpenOpportunity(t *testing.T) {
	db := newTestDB(t)
	svc := newInterestService(db)

	company := seedCompany(t, db, entity.ApprovalApproved)
	inactive := seedOpportunity(t, db, company.ID, entity.ApprovalApproved, entity.LifecycleInactive)
	rejected := seedOpportunity(t, db, company.ID, entity.ApprovalRejected, entity.LifecycleInactive)
	student := principalOf(seedUser(t, db, entity.RoleStudent))

	_, apierr := svc.Manifest(student, inactive.ID)
	if apierr != apierror.OpportunityInactiveError || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400 OPPORTUNITY_INACTIVE, got %v", apierr)
	}

	if _, apierr = svc.Manifest(student, rejected.ID); apierr != apierror.OpportunityNotFoundError {
		t.Fatalf("expected 404 for rejected opportunity, got %v", apierr)
	}

	if _, apierr = svc.Manifest(companyPrincipal(company), inactive.ID); apierr != apierror.ForbiddenError {
		t.Fatalf("expected 403 for a company, got %v", apierr)
	}

	if n := countRows(t, db, &entity.Interest{}); n != 0 {
		t.Fatalf("expected no interest rows, got %d", n)
	}
}

func TestWithdrawInterestIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newInterestService(db)

	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalApproved, entity.LifecycleActive)
	student := principalOf(seedUser(t, db, entity.RoleStudent))

	if apierr := svc.Withdraw(student, opp.ID); apierr != nil {
		t.Fatalf("withdraw without interest: %v", apierr)
	}

	if _, apierr := svc.Manifest(student, opp.ID); apierr != nil {
		t.Fatalf("manifest: %v", apierr)
	}

	for i := 0; i < 2; i++ {
		if apierr := svc.Withdraw(student, opp.ID); apierr != nil {
			t.Fatalf("withdraw #%d: %v", i+1, apierr)
		}
	}

	if n := countRows(t, db, &entity.Interest{}); n != 0 {
		t.Fatalf("expected no interest rows, got %d", n)
	}
}
