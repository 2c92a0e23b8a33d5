package testutil

import (
	"kitchenlog/entities"
	"kitchenlog/pkg/ingredients"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateRecipe(t *testing.T, db *gorm.DB, owner *entities.User, name string) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		UserID:          owner.ID,
		Name:            name,
		Category:        "Dinner",
		TimeMinutes:     30,
		IngredientsJSON: ingredients.Serialize([]string{"salt", "water"}),
		Instructions:    "Cook it.",
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func CreateLog(t *testing.T, db *gorm.DB, owner *entities.User, recipe *entities.Recipe, day time.Time) *entities.CookingLog {
	t.Helper()
	l := &entities.CookingLog{
		UserID:     owner.ID,
		RecipeID:   recipe.ID,
		DateCooked: day,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func Whitelist(t *testing.T, db *gorm.DB, recipe *entities.Recipe, u *entities.User) {
	t.Helper()
	require.NoError(t, db.Create(&entities.RecipeWhitelist{
		RecipeID:  recipe.ID,
		UserID:    u.ID,
		CreatedAt: time.Now().UTC(),
	}).Error)
}

func ReloadUser(t *testing.T, db *gorm.DB, u *entities.User) *entities.User {
	t.Helper()
	var fresh entities.User
	require.NoError(t, db.First(&fresh, "id = ?", u.ID).Error)
	return &fresh
}
