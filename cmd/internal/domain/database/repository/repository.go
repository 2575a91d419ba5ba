package repository

import (
	"careerhub/cmd/internal/domain/database"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned by guarded writes when the target row does not
	// exist within the caller's scope.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique pair already exists.
	ErrDuplicate = errors.New("duplicate record")

	// ErrHasActiveOpportunities guards company deletion.
	ErrHasActiveOpportunities = errors.New("company owns active opportunities")

	// ErrHasApplications guards opportunity deletion.
	ErrHasApplications = errors.New("opportunity has applications")
)

// lockForUpdate adds SELECT ... FOR UPDATE on PostgreSQL. SQLite serializes
// writers on its own so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if database.IsPostgres(tx) {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
