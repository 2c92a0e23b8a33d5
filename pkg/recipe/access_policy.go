package recipe

import (
	"kitchenlog/domain"
	"kitchenlog/entities"
	"slices"

	"github.com/google/uuid"
)

// The predicates below expect recipe.Whitelist to be loaded.

func IsOwner(userID uuid.UUID, recipe *entities.Recipe) bool {
	return recipe != nil && userID != uuid.Nil && recipe.UserID == userID
}

func IsWhitelisted(userID uuid.UUID, recipe *entities.Recipe) bool {
	return recipe != nil && slices.Contains(recipe.WhitelistIDs(), userID)
}

func CanView(userID uuid.UUID, recipe *entities.Recipe) bool {
	return IsOwner(userID, recipe) || IsWhitelisted(userID, recipe)
}

func CanClone(userID uuid.UUID, recipe *entities.Recipe) bool {
	return CanView(userID, recipe)
}

func CanEdit(userID uuid.UUID, recipe *entities.Recipe) bool {
	return IsOwner(userID, recipe)
}

// CanDelete returns ErrUnauthorizedRecipeAccess for non-owners and
// ErrRecipeHasLogs when cooking logs still reference the recipe.
func CanDelete(userID uuid.UUID, recipe *entities.Recipe, logCount int64) error {
	if !IsOwner(userID, recipe) {
		return domain.ErrUnauthorizedRecipeAccess
	}
	if logCount > 0 {
		return domain.ErrRecipeHasLogs
	}
	return nil
}
