package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

// persistedModels are migrated in dependency order, parents first.
var persistedModels = []any{
	&models.Resume{},
	&models.ResumeSkill{},
	&models.ResumeFeedback{},
	&models.MatchedJob{},
	&models.Profile{},
}

// InitDatabase opens the postgres pool and migrates every record table.
func InitDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.Server.Env)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	log.Printf("✅ Database connected (%s@%s/%s)", cfg.Database.User, cfg.Database.Host, cfg.Database.DBName)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(persistedModels...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Printf("✅ Database migration completed (%d tables)", len(persistedModels))
	return nil
}

func gormLogLevel(env string) logger.LogLevel {
	switch env {
	case "development":
		return logger.Info
	case "test":
		return logger.Silent
	default:
		return logger.Warn
	}
}
