package storage

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tg-gatekeeper/internal/config"
	"tg-gatekeeper/internal/logger"
)

var (
	// DB is the global database connection
	DB *gorm.DB
)

// Initialize sets up the database connection. The store is mandatory: any
// failure here is a fatal startup condition for the caller.
func Initialize(cfg *config.Config) error {
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database DSN is required (set DATABASE_DSN)")
	}

	log.Printf("Connecting to database")

	dbLogger := gormlogger.New(
		log.New(logger.GetRotatingLogWriter(cfg, "tg-gatekeeper-db"), "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      gormlogger.Warn,
		},
	)

	var err error
	DB, err = gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to configure connection pool
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Printf("Database connection established successfully")
	return nil
}
