package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an individual account (student, graduate or administrator)
// backed by a Cognito identity.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubUUID       string    `gorm:"not null;uniqueIndex"`
	FullName      string    `gorm:"not null"`
	Email         string    `gorm:"not null;uniqueIndex"`
	EmailVerified bool      `gorm:"not null"`
	Role          Role      `gorm:"not null;default:'student'"`
	Phone         string
	Degree        string
	Bio           string
	Active        bool  `gorm:"not null;default:true"`
	CreatedAt     int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt     int64 `gorm:"not null;autoUpdateTime:false"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
