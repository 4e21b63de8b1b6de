package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Log
		&nutrition.LoggedEntry{},

		// Food sources
		&nutrition.CustomFood{},
		&nutrition.CatalogFood{},
		&nutrition.CatalogNutrient{},

		// Targets
		&nutrition.UserNutritionProfile{},
	)
}
