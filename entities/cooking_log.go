package entities

import (
	"time"

	"github.com/google/uuid"
)

type CookingLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	RecipeID        uuid.UUID `gorm:"type:uuid;index;not null" json:"recipe_id"`
	DateCooked      time.Time `gorm:"type:date;index;not null" json:"date_cooked"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	Rating          *int      `json:"rating,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	ImageURL        string    `gorm:"type:text" json:"image_url,omitempty"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}
