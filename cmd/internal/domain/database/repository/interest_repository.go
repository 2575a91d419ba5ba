package repository

import (
	"careerhub/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultInterestRepository struct {
	db *gorm.DB
}

func NewInterestRepository(db *gorm.DB) *DefaultInterestRepository {
	return &DefaultInterestRepository{db: db}
}

// Create registers the interest, returning ErrDuplicate when the user is
// already interested in the opportunity.
func (i *DefaultInterestRepository) Create(interest *entity.Interest) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&entity.Interest{}).
			Where("user_id = ? AND opportunity_id = ?", interest.UserID, interest.OpportunityID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		if err = tx.Create(interest).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

// Delete reports whether a row was actually removed.
func (i *DefaultInterestRepository) Delete(userID, opportunityID uuid.UUID) (bool, error) {
	result := i.db.
		Where("user_id = ? AND opportunity_id = ?", userID, opportunityID).
		Delete(&entity.Interest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (i *DefaultInterestRepository) FindByUser(userID uuid.UUID) ([]*entity.Interest, error) {
	var interests []*entity.Interest
	err := i.db.
		Preload("Opportunity").
		Preload("Opportunity.Company").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&interests).Error
	if err != nil {
		return nil, err
	}
	return interests, nil
}
