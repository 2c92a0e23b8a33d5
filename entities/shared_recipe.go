package entities

import (
	"time"

	"github.com/google/uuid"
)

// SharedRecipe is an inbox notice; access itself lives in RecipeWhitelist.
type SharedRecipe struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_shared_receiver_recipe;not null" json:"receiver_id"`
	RecipeID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_shared_receiver_recipe;not null" json:"recipe_id"`
	SharerName string    `gorm:"size:80;not null" json:"sharer_name"`
	DateShared time.Time `gorm:"type:timestamp;not null" json:"date_shared"`

	Receiver *User   `gorm:"foreignKey:ReceiverID"`
	Recipe   *Recipe `gorm:"foreignKey:RecipeID"`
}
