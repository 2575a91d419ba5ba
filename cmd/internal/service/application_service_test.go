package service

import (
	"bytes"
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/policy"
	"careerhub/cmd/internal/utils/apierror"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newApplicationService(db *gorm.DB, s3 *fakeS3) *ApplicationService {
	return NewApplicationService(
		repository.NewApplicationRepository(db),
		repository.NewOpportunityRepository(db),
		s3,
		policy.NewOpportunityPolicy(),
		10*time.Minute,
	)
}

func TestApplyTwiceIsRejected(t *testing.T) {
	db := newTestDB(t)
	s3 := newFakeS3()
	svc := newApplicationService(db, s3)

	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalApproved, entity.LifecycleActive)
	student := principalOf(seedUser(t, db, entity.RoleStudent))
	ctx := context.Background()

	resp, apierr := svc.Apply(ctx, student, opp.ID.String(), fileHeader(t, "cv", "cv.pdf", pdfHeader))
	if apierr != nil {
		t.Fatalf("first apply: %v", apierr)
	}
	if resp.ApplyID == "" || !strings.Contains(resp.CVURL, "apply_id="+resp.ApplyID) {
		t.Fatalf("unexpected apply response %+v", resp)
	}

	_, apierr = svc.Apply(ctx, student, opp.ID.String(), fileHeader(t, "cv", "cv.pdf", pdfHeader))
	if apierr != apierror.AlreadyAppliedError {
		t.Fatalf("expected YA_APLICO, got %v", apierr)
	}
	if apierr.Code() != http.StatusConflict {
		t.Fatalf("expected 409, got %d", apierr.Code())
	}

	if n := countRows(t, db, &entity.Application{}); n != 1 {
		t.Fatalf("expected one application, got %d", n)
	}
	if s3.uploadCount() != 1 {
		t.Fatalf("expected one upload, got %d", s3.uploadCount())
	}
}

func TestApplyRejectsBadCVBeforeStorage(t *testing.T) {
	db := newTestDB(t)
	s3 := newFakeS3()
	svc := newApplicationService(db, s3)

	company := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, company.ID, entity.ApprovalApproved, entity.LifecycleActive)
	student := principalOf(seedUser(t, db, entity.RoleStudent))

	oversized := append(append([]byte{}, pdfHeader...), bytes.Repeat([]byte("0"), contract.MaxCVSizeBytes)...)

	cases := []struct {
		name     string
		filename string
		data     []byte
		want     apierror.ErrorResponse
	}{
		{"word document", "cv.docx", pdfHeader, apierror.CVNotPDFError},
		{"renamed image", "cv.pdf", []byte("\x89PNG\r\n\x1a\n0000000000"), apierror.CVNotPDFError},
		{"too large", "cv.pdf", oversized, apierror.CVTooLargeError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, apierr := svc.Apply(context.Background(), student, opp.ID.String(), fileHeader(t, "cv", tc.filename, tc.data))
			if apierr != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, apierr)
			}
			if apierr.Code() != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", apierr.Code())
			}
		})
	}

	if s3.uploadCount() != 0 {
		t.Fatalf("expected no storage writes, got %d", s3.uploadCount())
	}
	if n := countRows(t, db, &entity.Application{}); n != 0 {
		t.Fatalf("expected no applications, got %d", n)
	}
}

func TestApplyOpportunityStates(t *testing.T) {
	db := newTestDB(t)
	s3 := newFakeS3()
	svc := newApplicationService(db, s3)

	company := seedCompany(t, db, entity.ApprovalApproved)
	pending := seedOpportunity(t, db, company.ID, entity.ApprovalPending, entity.LifecycleActive)
	inactive := seedOpportunity(t, db, company.ID, entity.ApprovalApproved, entity.LifecycleInactive)
	student := principalOf(seedUser(t, db, entity.RoleStudent))

	_, apierr := svc.Apply(context.Background(), student, pending.ID.String(), fileHeader(t, "cv", "cv.pdf", pdfHeader))
	if apierr == nil || apierr.Code() != http.StatusNotFound {
		t.Fatalf("expected 404 for unapproved opportunity, got %v", apierr)
	}

	_, apierr = svc.Apply(context.Background(), student, inactive.ID.String(), fileHeader(t, "cv", "cv.pdf", pdfHeader))
	if apierr != apierror.OpportunityInactiveError {
		t.Fatalf("expected OPPORTUNITY_INACTIVE, got %v", apierr)
	}

	_, apierr = svc.Apply(context.Background(), companyPrincipal(company), inactive.ID.String(), fileHeader(t, "cv", "cv.pdf", pdfHeader))
	if apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Fatalf("expected 403 for a company, got %v", apierr)
	}

	if s3.uploadCount() != 0 {
		t.Fatalf("expected no storage writes, got %d", s3.uploadCount())
	}
}

func TestCVDownloadAccess(t *testing.T) {
	db := newTestDB(t)
	s3 := newFakeS3()
	svc := newApplicationService(db, s3)
	ctx := context.Background()

	owner := seedCompany(t, db, entity.ApprovalApproved)
	other := seedCompany(t, db, entity.ApprovalApproved)
	opp := seedOpportunity(t, db, owner.ID, entity.ApprovalApproved, entity.LifecycleActive)
	applicant := principalOf(seedUser(t, db, entity.RoleStudent))
	stranger := principalOf(seedUser(t, db, entity.RoleGraduate))

	resp, apierr := svc.Apply(ctx, applicant, opp.ID.String(), fileHeader(t, "cv", "cv.pdf", pdfHeader))
	if apierr != nil {
		t.Fatalf("apply: %v", apierr)
	}

	for _, actor := range []*entity.Principal{applicant, companyPrincipal(owner), adminPrincipal()} {
		url, apierr := svc.CVDownloadURL(ctx, actor, opp.ID, resp.ApplyID)
		if apierr != nil {
			t.Fatalf("%s: expected access, got %v", actor.Role, apierr)
		}
		if !strings.Contains(url, "signed=1") {
			t.Fatalf("expected presigned url, got %s", url)
		}
	}

	for _, actor := range []*entity.Principal{stranger, companyPrincipal(other)} {
		if _, apierr := svc.CVDownloadURL(ctx, actor, opp.ID, resp.ApplyID); apierr != apierror.ApplicationNotFoundError {
			t.Fatalf("%s: expected 404, got %v", actor.Role, apierr)
		}
	}

	applicants, apierr := svc.ListApplicants(companyPrincipal(owner), opp.ID)
	if apierr != nil {
		t.Fatalf("list applicants: %v", apierr)
	}
	if len(applicants) != 1 || applicants[0].ApplyID != resp.ApplyID {
		t.Fatalf("unexpected applicants %+v", applicants)
	}

	if _, apierr = svc.ListApplicants(companyPrincipal(other), opp.ID); apierr != apierror.OpportunityNotFoundError {
		t.Fatalf("expected 404 for another company, got %v", apierr)
	}

	mine, apierr := svc.ListMine(applicant)
	if apierr != nil || len(mine) != 1 {
		t.Fatalf("expected one own application, got %d (%v)", len(mine), apierr)
	}
}
