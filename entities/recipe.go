package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name            string    `gorm:"size:150;not null" json:"name"`
	Category        string    `gorm:"size:50;not null" json:"category"`
	TimeMinutes     int       `gorm:"not null" json:"time"`
	IngredientsJSON string    `gorm:"type:text;not null" json:"-"`
	Instructions    string    `gorm:"type:text;not null" json:"instructions"`
	Image           string    `gorm:"type:text" json:"image,omitempty"`

	User      *User             `gorm:"foreignKey:UserID"`
	Whitelist []RecipeWhitelist `gorm:"foreignKey:RecipeID"`
	Timestamp
}

// RecipeWhitelist grants a non-owner view and clone access to a recipe.
type RecipeWhitelist struct {
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User *User `gorm:"foreignKey:UserID"`
}

// WhitelistIDs returns the ids of users the recipe is shared with.
func (r *Recipe) WhitelistIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Whitelist))
	for _, w := range r.Whitelist {
		ids = append(ids, w.UserID)
	}
	return ids
}
