package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuchenghsu/signalguide-backend/internal/config"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	if cfg.DBEmbedded {
		if err := StartEmbedded(cfg); err != nil {
			return fmt.Errorf("failed to start embedded postgres: %w", err)
		}
	}

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected", "embedded", cfg.DBEmbedded)
	return nil
}

// Migrate runs AutoMigrate for all models.
func Migrate() error {
	return MigrateAll(DB)
}

// MigrateAll runs AutoMigrate against an explicit connection. Tests use
// it with their own embedded database.
func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.JobType{},
		&models.Guide{},
		&models.Device{},
		&models.FaultCase{},
		&models.ProcedureStep{},
		&models.SystemLog{},
	)
}

func Ping() error {
	if DB == nil {
		return errors.New("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
