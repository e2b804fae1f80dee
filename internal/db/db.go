package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/woopit/woopit-server/internal/config"
)

// NewDB initializes the database connection using DSN from config.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// surface driver constraint violations as gorm.ErrDuplicatedKey etc.
		// so the HTTP error mapper can translate them
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// AutoMigrate ensures schema is in sync with models.
	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema for all models. Shared with test setups.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Activity{},
		&MatchRequest{},
		&Woop{},
		&Participant{},
		&Message{},
		&CommunityIdea{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
