package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username          string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email             string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"size:128;not null" json:"-"`
	Bio               string     `gorm:"type:text" json:"bio,omitempty"`
	ProfilePictureURL string     `gorm:"size:255" json:"profile_picture_url,omitempty"`
	LastCookedDate    *time.Time `gorm:"type:date" json:"last_cooked_date,omitempty"`
	CurrentStreak     int        `gorm:"not null;default:0" json:"current_streak"`

	Recipes []Recipe `gorm:"foreignKey:UserID"`
	Timestamp
}
