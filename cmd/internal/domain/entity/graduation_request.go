package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GraduationRequest asks an administrator to mark a student as graduated.
type GraduationRequest struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Year         int            `gorm:"not null"`
	Degree       string         `gorm:"not null"`
	Thesis       string         `gorm:"not null"`
	GPA          float64        `gorm:"not null"`
	Status       ApprovalStatus `gorm:"not null;default:'PENDING';index"`
	ReviewedByID *uuid.UUID     `gorm:"type:uuid"`
	ReviewedAt   int64
	CreatedAt    int64 `gorm:"not null;autoCreateTime:false"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

func (g *GraduationRequest) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
