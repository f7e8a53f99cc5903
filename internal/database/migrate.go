package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/models"
)

// RunMigrations creates or updates the local record table
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running GORM auto-migration for %s", db.Dialector.Name())
	if err := db.AutoMigrate(&models.LocalRecord{}); err != nil {
		return fmt.Errorf("failed to migrate local records: %w", err)
	}
	return nil
}
