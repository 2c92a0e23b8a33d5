package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

// assignID fills a missing primary key so rows can be created on databases
// without a uuid default (sqlite).
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

func (l *CookingLog) BeforeCreate(_ *gorm.DB) error {
	assignID(&l.ID)
	return nil
}

func (n *SharedRecipe) BeforeCreate(_ *gorm.DB) error {
	assignID(&n.ID)
	return nil
}
