package main

import (
	"bytes"
	"careerhub/cmd/internal/contract"
	"careerhub/cmd/internal/domain/database"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/policy"
	"careerhub/cmd/internal/http/handler"
	"careerhub/cmd/internal/infrastructure/aws/websocket"
	"careerhub/cmd/internal/infrastructure/ratelimit"
	"careerhub/cmd/internal/service"
	"careerhub/cmd/internal/session"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"careerhub/cmd/internal/utils/validators"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const testPassword = "Sup3r$ecret"

type memoryStorage struct{}

func (memoryStorage) UploadFile(_ context.Context, key string, _ []byte) (string, error) {
	return key, nil
}

func (memoryStorage) DeleteFile(context.Context, string) error { return nil }

func (memoryStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.test/" + key, nil
}

func (memoryStorage) PublicURL(key string) string { return "https://cdn.test/" + key }

type silentNotifier struct{}

func (silentNotifier) NotifyCompanyRegistered(context.Context, string, string) error { return nil }

type testServer struct {
	e       *echo.Echo
	db      *gorm.DB
	adminID uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Open(database.MemoryDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	validate := validators.New()
	sessions := session.NewManager("test-secret", time.Hour, false)
	adminID := uuid.New()

	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	oppRepo := repository.NewOpportunityRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	oppPolicy := policy.NewOpportunityPolicy()
	companyPolicy := policy.NewCompanyPolicy()
	storage := memoryStorage{}

	wsService := service.NewWebSocketService(repository.NewConnectionRepository(db), websocket.NoopGatewayClient{})
	identity := service.NewIdentityService(companyRepo, userRepo, sessions, nil, companyPolicy, adminID)
	companies := service.NewCompanyService(companyRepo, oppRepo, auditRepo, sessions, silentNotifier{}, storage, wsService, companyPolicy, validate)

	e := NewRouter(&Routes{
		Identity:      identity,
		Limiter:       ratelimit.NoopLimiter{},
		Users:         handler.NewUserDefault(service.NewUserService(userRepo, validate, nil, func(string) bool { return false }), sessions),
		Companies:     handler.NewCompanyDefault(companies, sessions),
		Opportunities: handler.NewOpportunityDefault(service.NewOpportunityService(oppRepo, storage, oppPolicy, validate)),
		Applications:  handler.NewApplicationDefault(service.NewApplicationService(repository.NewApplicationRepository(db), oppRepo, storage, oppPolicy, time.Minute)),
		Interests:     handler.NewInterestDefault(service.NewInterestService(repository.NewInterestRepository(db), oppRepo, oppPolicy)),
		Profiles:      handler.NewProfileDefault(service.NewProfileService(userRepo, validate)),
		Graduations:   handler.NewGraduationDefault(service.NewGraduationService(repository.NewGraduationRepository(db), auditRepo, validate)),
		Admin:         handler.NewAdminDefault(service.NewApprovalService(oppRepo, companyRepo, auditRepo, wsService)),
		WebSockets:    handler.NewWSDefault(wsService),
	})
	return &testServer{e: e, db: db, adminID: adminID}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedCompany(t *testing.T, status entity.ApprovalStatus) *entity.Company {
	t.Helper()
	hash, err := session.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	now := utils.NowUTC()
	company := &entity.Company{
		Name:           "Acme Ingeniería",
		Email:          uuid.NewString() + "@acme.test",
		PasswordHash:   hash,
		ApprovalStatus: status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err = s.db.Create(company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return company
}

func (s *testServer) login(t *testing.T, company *entity.Company) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/company-login", &contract.CompanyLoginRequest{Email: company.Email, Password: testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.CompanyCookie {
			return cookie
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
	return out
}

func TestOpportunityReviewFlow(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, s.seedCompany(t, entity.ApprovalApproved))

	rec := s.do(t, http.MethodPost, "/api/opportunities/tfg", &contract.TFGOpportunityRequest{
		Title:        "TFG en visión artificial",
		Description:  "Detección de defectos en línea de producción",
		Mode:         "remote",
		Requirements: "Python",
		ContactInfo:  "rrhh@acme.test",
	}, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create opportunity: %d %s", rec.Code, rec.Body)
	}
	opp := decode[contract.OpportunityResponse](t, rec)

	public := decode[map[string][]contract.OpportunityResponse](t, s.do(t, http.MethodGet, "/api/opportunities", nil))
	if len(public["opportunities"]) != 0 {
		t.Fatalf("pending opportunity must not be public, got %+v", public)
	}

	// Companies cannot reach the admin routes
	if rec = s.do(t, http.MethodGet, "/api/admin/opportunities/pending", nil, cookie); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a company, got %d", rec.Code)
	}

	pending := decode[map[string][]contract.OpportunityResponse](t, s.do(t, http.MethodGet, "/api/admin/opportunities/pending", nil))
	if len(pending["opportunities"]) != 1 || pending["opportunities"][0].ID != opp.ID {
		t.Fatalf("expected the new opportunity to be pending, got %+v", pending)
	}

	rejectPath := "/api/admin/opportunities/" + opp.ID + "/reject"
	rec = s.do(t, http.MethodPost, rejectPath, &contract.RejectRequest{RejectionReason: "muy corto"})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "al menos 20 caracteres") {
		t.Fatalf("expected the short reason to be refused, got %d %s", rec.Code, rec.Body)
	}

	reason := "Falta indicar el salario."
	rec = s.do(t, http.MethodPost, rejectPath, &contract.RejectRequest{RejectionReason: reason})
	if rec.Code != http.StatusOK {
		t.Fatalf("reject: %d %s", rec.Code, rec.Body)
	}
	rejected := decode[contract.OpportunityResponse](t, rec)
	if rejected.ApprovalStatus != string(entity.ApprovalRejected) || rejected.LifecycleStatus != string(entity.LifecycleInactive) {
		t.Fatalf("unexpected rejected opportunity %+v", rejected)
	}

	if rec = s.do(t, http.MethodPost, "/api/admin/opportunities/"+opp.ID+"/approve", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 deciding twice, got %d", rec.Code)
	}

	trail := decode[map[string][]contract.AuditLogResponse](t, s.do(t, http.MethodGet, "/api/admin/audit-logs?entity_type=OPPORTUNITY&entity_id="+opp.ID, nil))
	logs := trail["audit_logs"]
	if len(logs) != 1 || logs[0].Action != string(entity.AuditReject) || logs[0].ActorID != s.adminID.String() {
		t.Fatalf("expected one REJECT audit row by the admin, got %+v", logs)
	}
	if details, ok := logs[0].Details.(map[string]any); !ok || details["reason"] != reason {
		t.Fatalf("expected the reason in the audit details, got %+v", logs[0].Details)
	}

	// The owner still sees its rejected opportunity, anonymous callers do not
	if rec = s.do(t, http.MethodGet, "/api/opportunities/"+opp.ID, nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("owner lookup: %d", rec.Code)
	}
}

func TestCompanyLoginGate(t *testing.T) {
	s := newTestServer(t)

	cases := map[entity.ApprovalStatus]int{
		entity.ApprovalPending:  http.StatusPaymentRequired,
		entity.ApprovalRejected: http.StatusForbidden,
	}
	for status, want := range cases {
		company := s.seedCompany(t, status)
		rec := s.do(t, http.MethodPost, "/api/auth/company-login", &contract.CompanyLoginRequest{Email: company.Email, Password: testPassword})
		if rec.Code != want {
			t.Errorf("%s: expected %d, got %d", status, want, rec.Code)
		}
	}

	company := s.seedCompany(t, entity.ApprovalApproved)
	rec := s.do(t, http.MethodPost, "/api/auth/company-login", &contract.CompanyLoginRequest{Email: company.Email, Password: "Wr0ng$pass"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong password, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
}

func TestOversizedUploadsAreBadRequests(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("opportunity_id", uuid.NewString()); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := form.CreateFormFile("cv", "cv.pdf")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte("%PDF-1.7\n"))
	_, _ = part.Write(bytes.Repeat([]byte{'x'}, 13<<20))
	_ = form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/student/upload-cv", &body)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an oversized CV, got %d", rec.Code)
	}
	if got := decode[apierror.APIError](t, rec); !strings.Contains(got.Message, "5MB") {
		t.Fatalf("expected the CV size error, got %+v", got)
	}

	// Routes without a dedicated error still answer 400
	rec = s.do(t, http.MethodPost, "/api/graduation-requests", strings.Repeat("a", 13<<20))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "too large") {
		t.Fatalf("expected 400 for an oversized body, got %d %s", rec.Code, rec.Body)
	}
}
