package domain

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessUploadImage     = "recipe image uploaded successfully"
	MessageSuccessCloneRecipe     = "recipe cloned successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedUploadImage     = "failed to upload recipe image"
	MessageFailedCloneRecipe     = "failed to clone recipe"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrRecipeHasLogs            = errors.New("cannot delete recipe with existing cooking logs")
	ErrInvalidRecipeTime        = errors.New("time must be a positive integer")
	ErrInvalidIngredients       = errors.New("ingredients must be a list or a comma-separated string")
	ErrIngredientsRequired      = errors.New("at least one ingredient is required")
	ErrInvalidImageFormat       = errors.New("invalid image format")
)

type (
	RecipeRequest struct {
		Name         string          `json:"name" validate:"required,max=150"`
		Category     string          `json:"category" validate:"required,max=50"`
		Time         int             `json:"time" validate:"required"`
		Ingredients  json.RawMessage `json:"ingredients" validate:"required"`
		Instructions string          `json:"instructions" validate:"required"`
		Image        string          `json:"image,omitempty"`
	}

	CloneRecipeRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
	}

	UploadRecipeImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	Recipe struct {
		ID           string    `json:"id"`
		UserID       string    `json:"user_id"`
		Author       string    `json:"author"`
		Name         string    `json:"name"`
		Category     string    `json:"category"`
		Time         int       `json:"time"`
		Ingredients  []string  `json:"ingredients"`
		Instructions string    `json:"instructions"`
		Image        string    `json:"image,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
	}

	RecipeDetail struct {
		Recipe
		Whitelist []string `json:"whitelist"`
		CanEdit   bool     `json:"can_edit"`
		CanDelete bool     `json:"can_delete"`
		CanClone  bool     `json:"can_clone"`
		LogCount  int64    `json:"log_count"`
	}

	CloneRecipeResponse struct {
		NewRecipeID string `json:"new_recipe_id"`
		Recipe      Recipe `json:"recipe"`
	}
)
