package db

import (
	"errors"

	"github.com/diewo77/cafe-billing/internal/models"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Record{}); err != nil {
		return err
	}
	if !db.Migrator().HasTable(&models.Record{}) {
		return errors.New("missing table after migration: records")
	}
	return nil
}
