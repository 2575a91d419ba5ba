package database

import (
	"careerhub/cmd/internal/domain/entity"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// Open connects to PostgreSQL when dsn is a PostgreSQL connection string,
// to an in-memory SQLite database for MemoryDSN, and to the local SQLite
// file otherwise. The schema is migrated before returning.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch dsn {
	case "":
		db, err = gorm.Open(sqlite.Open(filepath.Join(".", "database.db")), cfg)
	case MemoryDSN:
		cfg.Logger = logger.Default.LogMode(logger.Silent)
		db, err = gorm.Open(sqlite.Open(MemoryDSN), cfg)
	default:
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	}
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if IsPostgres(db) {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	} else {
		// SQLite only tolerates one writer, and an in-memory database only
		// lives as long as its single connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Infof("database ready (%s)", db.Dialector.Name())
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Company{},
		&entity.Opportunity{},
		&entity.Application{},
		&entity.Interest{},
		&entity.AuditLog{},
		&entity.GraduationRequest{},
		&entity.Connection{},
	)
}

func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
