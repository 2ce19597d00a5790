package db

import (
	"fmt"
	"log"
	"strings"

	"expense-server/entities"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database from a connection string and runs migrations.
// The handle is returned for injection rather than stored in a package
// global, so tests can substitute their own Database.
func Connect(databaseURL string) (Database, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database connection string is required")
	}

	dsn := databaseURL
	// Managed providers expect TLS; keep local runs working without it
	if !strings.Contains(dsn, "sslmode=") &&
		!strings.Contains(dsn, "localhost") && !strings.Contains(dsn, "127.0.0.1") {
		if strings.Contains(dsn, "?") {
			dsn += "&sslmode=require"
		} else {
			dsn += "?sslmode=require"
		}
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Warn),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(0)

	log.Println("Database connection established")

	if err := gormDB.AutoMigrate(&entities.User{}, &entities.Expense{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormDatabase{DB: gormDB}, nil
}
