package repository

import (
	"careerhub/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *DefaultConnectionRepository {
	return &DefaultConnectionRepository{db: db}
}

func (c *DefaultConnectionRepository) Save(conn *entity.Connection) error {
	return c.db.Save(conn).Error
}

func (c *DefaultConnectionRepository) Delete(connID string) error {
	return c.db.Where("connection_id = ?", connID).Delete(&entity.Connection{}).Error
}

func (c *DefaultConnectionRepository) FindByPrincipalID(principalID uuid.UUID) ([]string, error) {
	var ids []string
	result := c.db.Model(&entity.Connection{}).
		Where("principal_id = ?", principalID).
		Pluck("connection_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

// FindStale returns connections whose token expired or whose last heartbeat
// is older than hbLimit milliseconds.
func (c *DefaultConnectionRepository) FindStale(now int64, hbLimit int64) ([]*entity.Connection, error) {
	var conns []*entity.Connection
	err := c.db.
		Where("expires_at < ? OR last_heartbeat_at < ?", now, now-hbLimit).
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (c *DefaultConnectionRepository) UpdateHeartbeat(connID string, now int64) error {
	return c.db.Model(&entity.Connection{}).
		Where("connection_id = ?", connID).
		Update("last_heartbeat_at", now).Error
}
