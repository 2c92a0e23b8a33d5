package user

import (
	"context"
	"errors"
	"fmt"
	"kitchenlog/domain"
	"kitchenlog/entities"
	"kitchenlog/internal/utils/storage"
	"kitchenlog/pkg/jwt"
	"kitchenlog/pkg/session"
	"kitchenlog/pkg/streak"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const SearchLimit = 10

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
		GetUser(ctx context.Context, userID string) (domain.UserResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error)
		UploadProfilePicture(ctx context.Context, userID string, file *multipart.FileHeader) (domain.UserResponse, error)
		SearchUsers(ctx context.Context, userID string, query string) ([]domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		sessions       session.Store
		s3             storage.AwsS3
		calendar       *streak.Calendar
		log            *zap.Logger
		bcryptCost     int
	}

	Option func(*userService)
)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *userService) { s.bcryptCost = cost }
}

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	sessions session.Store,
	s3 storage.AwsS3,
	calendar *streak.Calendar,
	log *zap.Logger,
	opts ...Option,
) UserService {
	s := &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		sessions:       sessions,
		s3:             s3,
		calendar:       calendar,
		log:            log,
		bcryptCost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ToUserResponse renders a user with the streak as it stands today.
func ToUserResponse(u *entities.User, calendar *streak.Calendar) domain.UserResponse {
	return domain.UserResponse{
		ID:                u.ID.String(),
		Username:          u.Username,
		Email:             u.Email,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
		JoinedAt:          u.CreatedAt,
		CurrentStreak:     calendar.Effective(u.CurrentStreak, u.LastCookedDate),
		LastCookedDate:    u.LastCookedDate,
	}
}

func (s *userService) checkAvailable(ctx context.Context, username, email, excludeID string) error {
	taken, err := s.userRepository.ExistsOtherWithUsername(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}
	taken, err = s.userRepository.ExistsOtherWithEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailTaken
	}
	return nil
}

// translateDuplicate turns a unique-index violation that slipped past
// checkAvailable into the matching domain error.
func (s *userService) translateDuplicate(ctx context.Context, err error, username, email, excludeID string) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if availErr := s.checkAvailable(ctx, username, email, excludeID); availErr != nil {
		return availErr
	}
	return domain.ErrUsernameTaken
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkAvailable(ctx, username, email, ""); err != nil {
		return domain.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return domain.UserResponse{}, fmt.Errorf("%w: %v", domain.ErrHashPassword, err)
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.UserResponse{}, s.translateDuplicate(ctx, err, username, email, "")
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return ToUserResponse(user, s.calendar), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateTokenUser(user.ID.String(), domain.RoleUser, req.Remember)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user, s.calendar),
	}, nil
}

func (s *userService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return domain.ErrTokenNotFound
	}
	return s.sessions.Revoke(ctx, tokenID, expiresAt)
}

func (s *userService) getUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, s.calendar), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkAvailable(ctx, username, email, userID); err != nil {
		return domain.UserResponse{}, err
	}

	user.Username = username
	user.Email = email
	user.Bio = strings.TrimSpace(req.Bio)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, s.translateDuplicate(ctx, err, username, email, userID)
	}
	return ToUserResponse(user, s.calendar), nil
}

func (s *userService) UploadProfilePicture(ctx context.Context, userID string, file *multipart.FileHeader) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	key, err := s.s3.UploadFile(ctx, userID, file, "profile-pictures", storage.AllowImage...)
	if err != nil {
		return domain.UserResponse{}, err
	}

	oldKey := s.s3.GetObjectKeyFromLink(user.ProfilePictureURL)
	user.ProfilePictureURL = s.s3.GetPublicLinkKey(key)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	if oldKey != "" {
		if err := s.s3.DeleteFile(ctx, oldKey); err != nil {
			s.log.Warn("delete old profile picture", zap.String("key", oldKey), zap.Error(err))
		}
	}
	return ToUserResponse(user, s.calendar), nil
}

func (s *userService) SearchUsers(ctx context.Context, userID string, query string) ([]domain.UserResponse, error) {
	res := []domain.UserResponse{}
	query = strings.TrimSpace(query)
	if query == "" {
		return res, nil
	}

	users, err := s.userRepository.SearchUsers(ctx, query, userID, SearchLimit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		res = append(res, ToUserResponse(&users[i], s.calendar))
	}
	return res, nil
}
