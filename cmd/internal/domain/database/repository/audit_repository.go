package repository

import (
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/uid"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultAuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{db: db}
}

// Append stores entry, assigning its snowflake id and timestamp when unset.
func (a *DefaultAuditRepository) Append(entry *entity.AuditLog) error {
	if entry.ID == 0 {
		entry.ID = uid.Generate()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = utils.NowUTC()
	}
	return a.db.Create(entry).Error
}

func (a *DefaultAuditRepository) FindByEntity(entityType entity.AuditEntity, entityID uuid.UUID) ([]*entity.AuditLog, error) {
	var entries []*entity.AuditLog
	err := a.db.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
