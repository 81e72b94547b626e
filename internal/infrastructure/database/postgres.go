package database

import (
	"fmt"
	"log"

	"github.com/sangkips/optica-api/internal/config"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database named by cfg.Driver
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteDB(cfg.Path, debug)
	case "postgres", "":
		return NewPostgresDB(cfg, debug)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func gormConfig(debug bool) *gorm.Config {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// NewSQLiteDB opens a SQLite database file, or an in-memory database for
// a DSN such as "file:x?mode=memory&cache=shared"
func NewSQLiteDB(dsn string, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	log.Printf("Successfully opened SQLite database (%s)", dsn)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Spectacle prescriptions and orders
		&entity.Prescription{},
		&entity.EyePrescription{},
		&entity.PrescriptionRemark{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderPayment{},

		// Contact lenses
		&entity.ContactLensPrescription{},
		&entity.ContactLensEye{},
		&entity.ContactLensItem{},
		&entity.ContactLensPayment{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
