package user

import (
	"context"
	"kitchenlog/entities"
	"strings"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		WithTx(tx *gorm.DB) UserRepository
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		GetUserByIdentifier(ctx context.Context, identifier string) (*entities.User, error)
		ExistsOtherWithUsername(ctx context.Context, username string, excludeID string) (bool, error)
		ExistsOtherWithEmail(ctx context.Context, email string, excludeID string) (bool, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		SearchUsers(ctx context.Context, query string, excludeID string, limit int) ([]entities.User, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetUserByIdentifier matches either the username or the email.
func (r *userRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*entities.User, error) {
	return r.first(ctx, "username = ? OR LOWER(email) = ?", identifier, strings.ToLower(identifier))
}

func (r *userRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) ExistsOtherWithUsername(ctx context.Context, username string, excludeID string) (bool, error) {
	if excludeID == "" {
		return r.exists(ctx, "username = ?", username)
	}
	return r.exists(ctx, "username = ? AND id <> ?", username, excludeID)
}

func (r *userRepository) ExistsOtherWithEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	if excludeID == "" {
		return r.exists(ctx, "LOWER(email) = ?", strings.ToLower(email))
	}
	return r.exists(ctx, "LOWER(email) = ? AND id <> ?", strings.ToLower(email), excludeID)
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Model(user).Select("username", "email", "bio", "profile_picture_url", "updated_at").Updates(user).Error
}

func (r *userRepository) SearchUsers(ctx context.Context, query string, excludeID string, limit int) ([]entities.User, error) {
	var users []entities.User
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? AND id <> ?", pattern, excludeID).
		Order("username asc").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
