package entity

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditApprove AuditAction = "APPROVE"
	AuditReject  AuditAction = "REJECT"
	AuditDelete  AuditAction = "DELETE"
)

type AuditEntity string

const (
	AuditEntityCompany           AuditEntity = "COMPANY"
	AuditEntityOpportunity       AuditEntity = "OPPORTUNITY"
	AuditEntityGraduationRequest AuditEntity = "GRADUATION_REQUEST"
)

// AuditLog is an append-only record of an administrative action.
// Rows are never updated.
type AuditLog struct {
	ID         int64       `gorm:"primaryKey;autoIncrement:false"`
	Action     AuditAction `gorm:"not null"`
	EntityType AuditEntity `gorm:"not null;index:idx_audit_entity"`
	EntityID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_audit_entity"`
	CompanyID  *uuid.UUID  `gorm:"type:uuid;index"`
	ActorID    uuid.UUID   `gorm:"type:uuid;not null"`
	Details    datatypes.JSON
	CreatedAt  int64 `gorm:"not null;autoCreateTime:false"`
}
