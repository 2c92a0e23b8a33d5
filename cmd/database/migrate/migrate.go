package migration

import (
	"fmt"
	"kitchenlog/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return fmt.Errorf("create uuid extension: %w", err)
		}
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"recipe", &entities.Recipe{}},
		{"recipe whitelist", &entities.RecipeWhitelist{}},
		{"cooking log", &entities.CookingLog{}},
		{"shared recipe", &entities.SharedRecipe{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}
	return nil
}
