package cookinglog

import (
	"context"
	"kitchenlog/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	CookingLogRepository interface {
		WithTx(tx *gorm.DB) CookingLogRepository
		CreateLog(ctx context.Context, log *entities.CookingLog) error
		GetLogByID(ctx context.Context, id string) (*entities.CookingLog, error)
		GetLogsByUser(ctx context.Context, userID string, page, limit int) ([]entities.CookingLog, int64, error)
		GetRecentLogs(ctx context.Context, userID string, limit int) ([]entities.CookingLog, error)
		GetAllLogsByUser(ctx context.Context, userID string) ([]entities.CookingLog, error)
		UpdateLog(ctx context.Context, log *entities.CookingLog) error
		DeleteLog(ctx context.Context, id string) error
	}

	cookingLogRepository struct {
		db *gorm.DB
	}
)

func NewCookingLogRepository(db *gorm.DB) CookingLogRepository {
	return &cookingLogRepository{db: db}
}

func (r *cookingLogRepository) WithTx(tx *gorm.DB) CookingLogRepository {
	return &cookingLogRepository{db: tx}
}

func (r *cookingLogRepository) CreateLog(ctx context.Context, log *entities.CookingLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(log).Error
}

func (r *cookingLogRepository) GetLogByID(ctx context.Context, id string) (*entities.CookingLog, error) {
	var log entities.CookingLog
	if err := r.db.WithContext(ctx).Preload("Recipe").Where("id = ?", id).First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// newestFirst orders by cooking date, then by entry time.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("date_cooked desc").Order("created_at desc")
}

func (r *cookingLogRepository) GetLogsByUser(ctx context.Context, userID string, page, limit int) ([]entities.CookingLog, int64, error) {
	var logs []entities.CookingLog
	var count int64

	offset := (page - 1) * limit
	query := r.db.WithContext(ctx).Model(&entities.CookingLog{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.
		Preload("Recipe").
		Scopes(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, count, nil
}

func (r *cookingLogRepository) GetRecentLogs(ctx context.Context, userID string, limit int) ([]entities.CookingLog, error) {
	var logs []entities.CookingLog
	if err := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ?", userID).
		Scopes(newestFirst).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *cookingLogRepository) GetAllLogsByUser(ctx context.Context, userID string) ([]entities.CookingLog, error) {
	var logs []entities.CookingLog
	if err := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ?", userID).
		Order("date_cooked asc").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *cookingLogRepository) UpdateLog(ctx context.Context, log *entities.CookingLog) error {
	return r.db.WithContext(ctx).
		Model(log).
		Select("date_cooked", "duration_seconds", "rating", "notes", "image_url", "updated_at").
		Updates(log).Error
}

func (r *cookingLogRepository) DeleteLog(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.CookingLog{}).Error
}
