package infra

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wedplan/internal/config"
	"wedplan/internal/models/db_models"
)

// OpenDatabase connects gorm to the configured driver.
func OpenDatabase(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer; one connection also keeps :memory: databases alive.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			// Managed databases often pre-install the extension and deny CREATE.
			log.Warn("failed to create pgvector extension", zap.Error(err))
		}
	}

	return db.WithContext(ctx).AutoMigrate(
		&db_models.Account{},
		&db_models.Workspace{},
		&db_models.OnboardingStep{},
		&db_models.Item{},
		&db_models.MoodboardEmbedding{},
	)
}

func CloseDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error("error closing database connection", zap.Error(err))
	} else {
		log.Info("database connection closed")
	}
}
