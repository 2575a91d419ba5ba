package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application links an individual user to an opportunity with the CV they
// uploaded. A user applies at most once per opportunity.
type Application struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_user_opportunity"`
	OpportunityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_user_opportunity;index"`
	CVKey         string    `gorm:"not null"`
	CreatedAt     int64     `gorm:"not null;autoCreateTime:false"`

	// Relations
	User        *User        `gorm:"foreignKey:UserID;references:ID"`
	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID;references:ID"`
}

func (a *Application) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
