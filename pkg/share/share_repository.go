package share

import (
	"context"
	"kitchenlog/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	NoticeRepository interface {
		WithTx(tx *gorm.DB) NoticeRepository
		CreateNoticeIfAbsent(ctx context.Context, notice *entities.SharedRecipe) (bool, error)
		GetNoticesByReceiver(ctx context.Context, receiverID string) ([]entities.SharedRecipe, error)
		GetNoticeByID(ctx context.Context, id string) (*entities.SharedRecipe, error)
		DeleteNotice(ctx context.Context, id string) error
		DeleteNoticeFor(ctx context.Context, receiverID, recipeID uuid.UUID) error
	}

	noticeRepository struct {
		db *gorm.DB
	}
)

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) WithTx(tx *gorm.DB) NoticeRepository {
	return &noticeRepository{db: tx}
}

// CreateNoticeIfAbsent relies on the unique (receiver, recipe) index and
// reports whether a row was written.
func (r *noticeRepository) CreateNoticeIfAbsent(ctx context.Context, notice *entities.SharedRecipe) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(notice)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *noticeRepository) GetNoticesByReceiver(ctx context.Context, receiverID string) ([]entities.SharedRecipe, error) {
	var notices []entities.SharedRecipe
	if err := r.db.WithContext(ctx).
		Preload("Recipe").
		Where("receiver_id = ?", receiverID).
		Order("date_shared desc").
		Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) GetNoticeByID(ctx context.Context, id string) (*entities.SharedRecipe, error) {
	var notice entities.SharedRecipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notice).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *noticeRepository) DeleteNotice(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.SharedRecipe{}).Error
}

func (r *noticeRepository) DeleteNoticeFor(ctx context.Context, receiverID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("receiver_id = ? AND recipe_id = ?", receiverID, recipeID).
		Delete(&entities.SharedRecipe{}).Error
}
