package repository

import (
	"careerhub/cmd/internal/domain/entity"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *DefaultApplicationRepository {
	return &DefaultApplicationRepository{db: db}
}

func (a *DefaultApplicationRepository) FindByID(id uuid.UUID) (*entity.Application, error) {
	var app entity.Application
	err := a.db.Where("id = ?", id).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (a *DefaultApplicationRepository) Exists(userID, opportunityID uuid.UUID) (bool, error) {
	var count int64
	err := a.db.Model(&entity.Application{}).
		Where("user_id = ? AND opportunity_id = ?", userID, opportunityID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the application unless the user already applied to the
// opportunity, in which case ErrDuplicate is returned.
func (a *DefaultApplicationRepository) Create(app *entity.Application) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&entity.Application{}).
			Where("user_id = ? AND opportunity_id = ?", app.UserID, app.OpportunityID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		if err = tx.Create(app).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (a *DefaultApplicationRepository) FindByUser(userID uuid.UUID) ([]*entity.Application, error) {
	var apps []*entity.Application
	err := a.db.
		Preload("Opportunity").
		Preload("Opportunity.Company").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (a *DefaultApplicationRepository) FindByOpportunity(opportunityID uuid.UUID) ([]*entity.Application, error) {
	var apps []*entity.Application
	err := a.db.
		Preload("User").
		Where("opportunity_id = ?", opportunityID).
		Order("created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}
