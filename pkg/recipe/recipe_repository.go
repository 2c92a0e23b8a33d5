package recipe

import (
	"context"
	"kitchenlog/entities"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		WithTx(tx *gorm.DB) RecipeRepository
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipesByOwner(ctx context.Context, userID string, page, limit int) ([]entities.Recipe, int64, error)
		GetRecipesSharedWith(ctx context.Context, userID string) ([]entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id string) error

		// Cooking logs and notices that reference a recipe
		CountLogs(ctx context.Context, recipeID string) (int64, error)
		ListLogUserIDs(ctx context.Context, recipeID string) ([]string, error)
		DeleteLogs(ctx context.Context, recipeID string) error
		DeleteNotices(ctx context.Context, recipeID string) error

		// Whitelist
		AddToWhitelist(ctx context.Context, recipeID, userID uuid.UUID) (bool, error)
		RemoveFromWhitelist(ctx context.Context, recipeID, userID uuid.UUID) (bool, error)
		ClearWhitelist(ctx context.Context, recipeID string) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) WithTx(tx *gorm.DB) RecipeRepository {
	return &recipeRepository{db: tx}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Whitelist.User").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipesByOwner(ctx context.Context, userID string, page, limit int) ([]entities.Recipe, int64, error) {
	var recipes []entities.Recipe
	var count int64

	offset := (page - 1) * limit
	query := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Order("created_at desc").
		Order("name asc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesSharedWith(ctx context.Context, userID string) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN recipe_whitelists ON recipe_whitelists.recipe_id = recipes.id").
		Where("recipe_whitelists.user_id = ?", userID).
		Order("recipe_whitelists.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).
		Model(recipe).
		Select("name", "category", "time_minutes", "ingredients_json", "instructions", "image", "updated_at").
		Updates(recipe).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) CountLogs(ctx context.Context, recipeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.CookingLog{}).Where("recipe_id = ?", recipeID).Count(&count).Error
	return count, err
}

func (r *recipeRepository) ListLogUserIDs(ctx context.Context, recipeID string) ([]string, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.CookingLog{}).
		Where("recipe_id = ?", recipeID).
		Distinct().
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out, nil
}

func (r *recipeRepository) DeleteLogs(ctx context.Context, recipeID string) error {
	return r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&entities.CookingLog{}).Error
}

func (r *recipeRepository) DeleteNotices(ctx context.Context, recipeID string) error {
	return r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&entities.SharedRecipe{}).Error
}

// AddToWhitelist reports whether a new row was inserted.
func (r *recipeRepository) AddToWhitelist(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.RecipeWhitelist{
			RecipeID:  recipeID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *recipeRepository) RemoveFromWhitelist(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&entities.RecipeWhitelist{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *recipeRepository) ClearWhitelist(ctx context.Context, recipeID string) error {
	return r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&entities.RecipeWhitelist{}).Error
}
