package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&models.User{},
		&models.EmailVerificationToken{},
		&models.PasswordResetToken{},
		&models.Session{},
		&models.Profile{},
		&models.Social{},
		&models.Course{},
		&models.Chapter{},
		&models.Publication{},
		&models.ResearchWork{},
		&models.CacheEntry{},
	}
}

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
