package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	HeartbeatPeriod    = 60 * time.Second
	HeartbeatTolerance = 10 * time.Second

	HeartbeatPeriodMillis    = int64(60 * 1000)
	HeartbeatToleranceMillis = int64(10 * 1000)
)

// Connection is a live API Gateway WebSocket held by a principal.
type Connection struct {
	ConnectionID    string    `gorm:"primaryKey;autoIncrement:false"`
	PrincipalID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Role            Role      `gorm:"not null"`
	ExpiresAt       int64     `gorm:"not null"`
	LastHeartbeatAt int64     `gorm:"not null;index"`
	CreatedAt       int64     `gorm:"not null"`
}
