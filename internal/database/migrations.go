package database

import (
	"fmt"

	"github.com/mkurosawa/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all persisted entities.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.FileBlob{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
