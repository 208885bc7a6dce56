// Package database owns the GORM connection and schema migration.
// File: database/connect.go
package database

import (
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"go-iron-flow/logger"
	"go-iron-flow/models"
)

// DB is the shared handle used by all services.
var DB *gorm.DB

// Connect opens the Postgres connection from DATABASE_URL and
// configures the pool. Fatal on failure: nothing works without storage.
func Connect() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=ironflow password=ironflow dbname=ironflow port=5432 sslmode=disable"
		logger.Warn.Println("DATABASE_URL not set, falling back to local default DSN")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		logger.Error.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info.Println("Database connection established, pool configured")
}

// MigrateTables creates or updates the schema for every entity.
func MigrateTables() {
	err := DB.AutoMigrate(
		&models.Tournament{},
		&models.WeightCategory{},
		&models.Participant{},
		&models.Attempt{},
		&models.PlatformRecord{},
	)
	if err != nil {
		logger.Error.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info.Println("Database migration completed")
}
