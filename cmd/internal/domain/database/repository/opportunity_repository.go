package repository

import (
	"careerhub/cmd/internal/domain/entity"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultOpportunityRepository struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) *DefaultOpportunityRepository {
	return &DefaultOpportunityRepository{db: db}
}

func (d *DefaultOpportunityRepository) FindByID(id uuid.UUID) (*entity.Opportunity, error) {
	var opp entity.Opportunity
	err := d.db.Preload("Company").Where("id = ?", id).First(&opp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &opp, nil
}

// FindOwned only returns the opportunity when it belongs to companyID.
func (d *DefaultOpportunityRepository) FindOwned(id, companyID uuid.UUID) (*entity.Opportunity, error) {
	var opp entity.Opportunity
	err := d.db.Where("id = ? AND company_id = ?", id, companyID).First(&opp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func (d *DefaultOpportunityRepository) FindPending() ([]*entity.Opportunity, error) {
	var opps []*entity.Opportunity
	err := d.db.
		Preload("Company").
		Where("approval_status = ?", entity.ApprovalPending).
		Order("created_at ASC").
		Find(&opps).Error
	if err != nil {
		return nil, err
	}
	return opps, nil
}

// FindPublished lists approved and active opportunities, newest first.
// A nil oppType lists every type.
func (d *DefaultOpportunityRepository) FindPublished(oppType *entity.OpportunityType) ([]*entity.Opportunity, error) {
	query := d.db.
		Preload("Company").
		Where("approval_status = ? AND lifecycle_status = ?", entity.ApprovalApproved, entity.LifecycleActive)
	if oppType != nil {
		query = query.Where("type = ?", *oppType)
	}

	var opps []*entity.Opportunity
	if err := query.Order("created_at DESC").Find(&opps).Error; err != nil {
		return nil, err
	}
	return opps, nil
}

func (d *DefaultOpportunityRepository) Save(opp *entity.Opportunity) error {
	return d.db.Save(opp).Error
}

// ApplyReview moves a pending opportunity to the review status and the
// given lifecycle. It returns false when the opportunity does not exist or
// was not pending anymore.
func (d *DefaultOpportunityRepository) ApplyReview(id uuid.UUID, review *entity.Review, lifecycle entity.LifecycleStatus) (bool, error) {
	result := d.db.Model(&entity.Opportunity{}).
		Where("id = ? AND approval_status = ?", id, entity.ApprovalPending).
		Updates(map[string]any{
			"approval_status":  review.Status,
			"lifecycle_status": lifecycle,
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

// DeleteOwned removes an opportunity of companyID and its interest rows.
// Opportunities that already received applications are kept.
func (d *DefaultOpportunityRepository) DeleteOwned(id, companyID uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var opp entity.Opportunity
		err := lockForUpdate(tx).Where("id = ? AND company_id = ?", id, companyID).First(&opp).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var applications int64
		if err = tx.Model(&entity.Application{}).Where("opportunity_id = ?", id).Count(&applications).Error; err != nil {
			return err
		}
		if applications > 0 {
			return ErrHasApplications
		}

		if err = tx.Where("opportunity_id = ?", id).Delete(&entity.Interest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&opp).Error
	})
}

func (d *DefaultOpportunityRepository) CompanyMetrics(companyID uuid.UUID) (*entity.CompanyMetrics, error) {
	type statusCount struct {
		ApprovalStatus  entity.ApprovalStatus
		LifecycleStatus entity.LifecycleStatus
		Total           int64
	}

	var rows []statusCount
	err := d.db.Model(&entity.Opportunity{}).
		Select("approval_status, lifecycle_status, COUNT(*) AS total").
		Where("company_id = ?", companyID).
		Group("approval_status, lifecycle_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	metrics := &entity.CompanyMetrics{}
	for _, row := range rows {
		metrics.TotalOpportunities += row.Total
		switch row.ApprovalStatus {
		case entity.ApprovalPending:
			metrics.PendingOpportunities += row.Total
		case entity.ApprovalApproved:
			metrics.ApprovedOpportunities += row.Total
		case entity.ApprovalRejected:
			metrics.RejectedOpportunities += row.Total
		}

		if row.LifecycleStatus == entity.LifecycleActive {
			metrics.ActiveOpportunities += row.Total
		} else {
			metrics.InactiveOpportunities += row.Total
		}
	}

	owned := func() *gorm.DB {
		return d.db.Model(&entity.Opportunity{}).Select("id").Where("company_id = ?", companyID)
	}

	err = d.db.Model(&entity.Application{}).
		Where("opportunity_id IN (?)", owned()).
		Count(&metrics.TotalApplications).Error
	if err != nil {
		return nil, err
	}

	err = d.db.Model(&entity.Interest{}).
		Where("opportunity_id IN (?)", owned()).
		Count(&metrics.TotalInterests).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

// FindSummariesByCompany lists a company's opportunities, newest first,
// with their application and interest counters.
func (d *DefaultOpportunityRepository) FindSummariesByCompany(companyID uuid.UUID) ([]*entity.OpportunitySummary, error) {
	var opps []*entity.Opportunity
	err := d.db.
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&opps).Error
	if err != nil {
		return nil, err
	}

	if len(opps) == 0 {
		return []*entity.OpportunitySummary{}, nil
	}

	ids := make([]uuid.UUID, len(opps))
	for i, opp := range opps {
		ids[i] = opp.ID
	}

	applications, err := d.countByOpportunity(&entity.Application{}, ids)
	if err != nil {
		return nil, err
	}

	interests, err := d.countByOpportunity(&entity.Interest{}, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]*entity.OpportunitySummary, len(opps))
	for i, opp := range opps {
		key := opp.ID.String()
		summaries[i] = &entity.OpportunitySummary{
			Opportunity:      *opp,
			ApplicationCount: applications[key],
			InterestCount:    interests[key],
		}
	}
	return summaries, nil
}

func (d *DefaultOpportunityRepository) countByOpportunity(model any, ids []uuid.UUID) (map[string]int64, error) {
	type row struct {
		OpportunityID string
		Total         int64
	}

	var rows []row
	err := d.db.Model(model).
		Select("opportunity_id, COUNT(*) AS total").
		Where("opportunity_id IN ?", ids).
		Group("opportunity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.OpportunityID] = r.Total
	}
	return counts, nil
}
