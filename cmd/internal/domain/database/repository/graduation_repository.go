package repository

import (
	"careerhub/cmd/internal/domain/entity"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultGraduationRepository struct {
	db *gorm.DB
}

func NewGraduationRepository(db *gorm.DB) *DefaultGraduationRepository {
	return &DefaultGraduationRepository{db: db}
}

func (g *DefaultGraduationRepository) FindByID(id uuid.UUID) (*entity.GraduationRequest, error) {
	var req entity.GraduationRequest
	err := g.db.Preload("User").Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreatePending stores the request unless the user already has a pending
// one, in which case ErrDuplicate is returned.
func (g *DefaultGraduationRepository) CreatePending(req *entity.GraduationRequest) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&entity.GraduationRequest{}).
			Where("user_id = ? AND status = ?", req.UserID, entity.ApprovalPending).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		req.Status = entity.ApprovalPending
		return tx.Create(req).Error
	})
}

func (g *DefaultGraduationRepository) FindByStatus(status entity.ApprovalStatus) ([]*entity.GraduationRequest, error) {
	var reqs []*entity.GraduationRequest
	err := g.db.
		Preload("User").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// Approve marks a pending request as approved and promotes its user to
// graduate in one transaction. It returns false when the request does not
// exist or was already decided.
func (g *DefaultGraduationRepository) Approve(id uuid.UUID, review *entity.Review) (bool, error) {
	approved := false
	err := g.db.Transaction(func(tx *gorm.DB) error {
		var req entity.GraduationRequest
		err := lockForUpdate(tx).
			Where("id = ? AND status = ?", id, entity.ApprovalPending).
			First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		err = tx.Model(&entity.GraduationRequest{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":         entity.ApprovalApproved,
				"reviewed_by_id": review.ActorID,
				"reviewed_at":    review.At,
			}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&entity.User{}).
			Where("id = ?", req.UserID).
			Updates(map[string]any{
				"role":       entity.RoleGraduate,
				"degree":     req.Degree,
				"updated_at": review.At,
			}).Error
		if err != nil {
			return err
		}

		approved = true
		return nil
	})
	return approved, err
}
