package repository

import (
	"careerhub/cmd/internal/domain/entity"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultCompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *DefaultCompanyRepository {
	return &DefaultCompanyRepository{db: db}
}

func (r *DefaultCompanyRepository) FindByID(id uuid.UUID) (*entity.Company, error) {
	var company entity.Company
	err := r.db.Where("id = ?", id).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *DefaultCompanyRepository) FindByEmail(email string) (*entity.Company, error) {
	var company entity.Company
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *DefaultCompanyRepository) FindByApprovalStatus(status entity.ApprovalStatus) ([]*entity.Company, error) {
	var companies []*entity.Company
	err := r.db.
		Where("approval_status = ?", status).
		Order("created_at ASC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// CreateWith inserts the company and runs afterCreate inside the same
// transaction. Any error from afterCreate rolls the insert back.
func (r *DefaultCompanyRepository) CreateWith(company *entity.Company, afterCreate func(*entity.Company) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicate
			}
			return err
		}

		if afterCreate == nil {
			return nil
		}
		return afterCreate(company)
	})
}

func (r *DefaultCompanyRepository) Save(company *entity.Company) error {
	return r.db.Save(company).Error
}

// ApplyReview moves a pending company to the review status. It returns
// false when the company does not exist or was not pending anymore.
func (r *DefaultCompanyRepository) ApplyReview(id uuid.UUID, review *entity.Review) (bool, error) {
	result := r.db.Model(&entity.Company{}).
		Where("id = ? AND approval_status = ?", id, entity.ApprovalPending).
		Updates(map[string]any{
			"approval_status":  review.Status,
			"rejection_reason": review.Reason,
			"reviewed_by_id":   review.ActorID,
			"reviewed_at":      review.At,
			"updated_at":       review.At,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteGuarded removes the company together with its opportunities and
// everything attached to them. It refuses with ErrHasActiveOpportunities
// while any owned opportunity is ACTIVE. The returned keys are the stored
// CV objects that no longer have a row.
func (r *DefaultCompanyRepository) DeleteGuarded(id uuid.UUID) ([]string, error) {
	var cvKeys []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var company entity.Company
		err := lockForUpdate(tx).Where("id = ?", id).First(&company).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var active int64
		err = tx.Model(&entity.Opportunity{}).
			Where("company_id = ? AND lifecycle_status = ?", id, entity.LifecycleActive).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrHasActiveOpportunities
		}

		owned := func() *gorm.DB {
			return tx.Model(&entity.Opportunity{}).Select("id").Where("company_id = ?", id)
		}

		err = tx.Model(&entity.Application{}).
			Where("opportunity_id IN (?)", owned()).
			Pluck("cv_key", &cvKeys).Error
		if err != nil {
			return err
		}

		if err = tx.Where("opportunity_id IN (?)", owned()).Delete(&entity.Application{}).Error; err != nil {
			return err
		}
		if err = tx.Where("opportunity_id IN (?)", owned()).Delete(&entity.Interest{}).Error; err != nil {
			return err
		}
		if err = tx.Where("company_id = ?", id).Delete(&entity.Opportunity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&company).Error
	})
	if err != nil {
		return nil, err
	}
	return cvKeys, nil
}
