// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/homemadefood/backoffice/internal/infrastructure/persistence/gorm"
)

// SetupDatabase opens the SQLite database at dbPath and migrates the schema.
// An empty path or ":memory:" opens a private in-memory database. A nil
// gormLogger silences GORM.
func SetupDatabase(dbPath string, gormLogger logger.Interface) (*gorm.DB, error) {
	inMemory := dbPath == "" || strings.Contains(dbPath, ":memory:")
	if dbPath == "" {
		dbPath = ":memory:"
	}
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// every pooled connection to ":memory:" would see its own empty database
	if inMemory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table from the GORM models
func Migrate(db *gorm.DB) error {
	if err := gormModels.SetupJoinTables(db); err != nil {
		return fmt.Errorf("failed to set up join tables: %w", err)
	}

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
