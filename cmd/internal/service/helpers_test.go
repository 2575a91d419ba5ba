package service

import (
	"bytes"
	"careerhub/cmd/internal/domain/database"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// pdfHeader is enough for content sniffing to report application/pdf.
var pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedCompany(t *testing.T, db *gorm.DB, status entity.ApprovalStatus) *entity.Company {
	t.Helper()
	now := utils.NowUTC()
	company := &entity.Company{
		Name:           "Acme Ingeniería",
		Email:          uuid.NewString() + "@acme.test",
		PasswordHash:   "x",
		ApprovalStatus: status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return company
}

func seedOpportunity(t *testing.T, db *gorm.DB, companyID uuid.UUID, approval entity.ApprovalStatus, lifecycle entity.LifecycleStatus) *entity.Opportunity {
	t.Helper()
	now := utils.NowUTC()
	opp := &entity.Opportunity{
		CompanyID:       companyID,
		Type:            entity.OpportunityTFG,
		Title:           "TFG en visión artificial",
		Description:     "Detección de defectos en línea de producción",
		Mode:            "remote",
		Requirements:    "Python",
		ContactInfo:     "rrhh@acme.test",
		ApprovalStatus:  approval,
		LifecycleStatus: lifecycle,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.Create(opp).Error; err != nil {
		t.Fatalf("seed opportunity: %v", err)
	}
	return opp
}

func seedUser(t *testing.T, db *gorm.DB, role entity.Role) *entity.User {
	t.Helper()
	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:       uuid.NewString(),
		FullName:      "Lucía Pérez",
		Email:         uuid.NewString() + "@uni.test",
		EmailVerified: true,
		Role:          role,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func principalOf(user *entity.User) *entity.Principal {
	return &entity.Principal{ID: user.ID, Role: user.Role, Verified: true, Email: user.Email, Name: user.FullName}
}

func companyPrincipal(company *entity.Company) *entity.Principal {
	return &entity.Principal{ID: company.ID, Role: entity.RoleCompany, Verified: true, Email: company.Email, Name: company.Name}
}

func adminPrincipal() *entity.Principal {
	return &entity.Principal{ID: uuid.New(), Role: entity.RoleAdmin, Verified: true}
}

// fileHeader builds a real multipart file header around data.
func fileHeader(t *testing.T, field, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err = part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err = writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
	deleted []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (s *fakeS3) UploadFile(ctx context.Context, key string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	s.objects[key] = data
	return key, nil
}

func (s *fakeS3) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeS3) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://bucket.test/" + key + "?signed=1", nil
}

func (s *fakeS3) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (s *fakeS3) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

type failingAuditRepo struct{}

func (failingAuditRepo) Append(*entity.AuditLog) error {
	return errors.New("audit table unavailable")
}

func (failingAuditRepo) FindByEntity(entity.AuditEntity, uuid.UUID) ([]*entity.AuditLog, error) {
	return nil, errors.New("audit table unavailable")
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *fakeNotifier) NotifyCompanyRegistered(ctx context.Context, name, email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, email)
	return nil
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
