package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpportunityType string

const (
	OpportunityTFG        OpportunityType = "TFG"
	OpportunityInternship OpportunityType = "INTERNSHIP"
	OpportunityJob        OpportunityType = "JOB"
)

type Opportunity struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type            OpportunityType `gorm:"not null;index"`
	Title           string          `gorm:"not null"`
	Description     string          `gorm:"not null"`
	Mode            string          `gorm:"not null"`
	Requirements    string          `gorm:"not null"`
	ContactInfo     string          `gorm:"not null"`
	ApprovalStatus  ApprovalStatus  `gorm:"not null;default:'PENDING';index"`
	LifecycleStatus LifecycleStatus `gorm:"not null;default:'ACTIVE';index"`
	RejectionReason string
	FlyerURL        string

	// Job only
	Salary   string
	Schedule string

	// TFG / internship only
	Duration    string
	Remunerated bool

	ReviewedByID *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt   int64
	CreatedAt    int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Company *Company `gorm:"foreignKey:CompanyID;references:ID"`
}

func (o *Opportunity) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the opportunity currently accepts applications
// and interest.
func (o *Opportunity) IsOpen() bool {
	return o.ApprovalStatus == ApprovalApproved && o.LifecycleStatus == LifecycleActive
}
