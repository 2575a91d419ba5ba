package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name            string         `gorm:"not null"`
	Email           string         `gorm:"not null;uniqueIndex"`
	PasswordHash    string         `gorm:"not null"`
	ApprovalStatus  ApprovalStatus `gorm:"not null;default:'PENDING';index"`
	RejectionReason string
	LogoURL         string
	ReviewedByID    *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      int64
	CreatedAt       int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       int64 `gorm:"not null;autoUpdateTime:false"`

	// Relationships
	Opportunities []*Opportunity `gorm:"foreignKey:CompanyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (c *Company) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Company) IsApproved() bool {
	return c.ApprovalStatus == ApprovalApproved
}
