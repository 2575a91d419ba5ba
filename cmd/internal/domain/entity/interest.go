package entity

import "github.com/google/uuid"

type Interest struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OpportunityID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt     int64     `gorm:"not null;autoCreateTime:false"`

	// Relations
	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID;references:ID"`
}
