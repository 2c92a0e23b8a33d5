package streak

import (
	"context"
	"kitchenlog/entities"
	"time"

	"gorm.io/gorm"
)

// Store reads log dates and writes the cached streak columns through GORM.
// Build it on a transaction handle to recompute inside that transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListCookedDates(ctx context.Context, userID string) ([]time.Time, error) {
	var dates []time.Time
	if err := s.db.WithContext(ctx).
		Model(&entities.CookingLog{}).
		Where("user_id = ?", userID).
		Pluck("date_cooked", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// UpdateStreak affects no rows when the user is gone, which is not an error.
func (s *Store) UpdateStreak(ctx context.Context, userID string, current int, lastCooked *time.Time) error {
	return s.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"current_streak":   current,
			"last_cooked_date": lastCooked,
		}).Error
}

// Recompute rebuilds and stores the streak of one user.
func (s *Store) Recompute(ctx context.Context, userID string) (Result, error) {
	return Recompute(ctx, s, s, userID)
}

// RecomputeAll rebuilds the streak of every listed user.
func (s *Store) RecomputeAll(ctx context.Context, userIDs []string) error {
	for _, id := range userIDs {
		if _, err := s.Recompute(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
