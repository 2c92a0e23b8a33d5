package cookinglog

import (
	"context"
	"errors"
	"fmt"
	"kitchenlog/domain"
	"kitchenlog/entities"
	"kitchenlog/internal/utils/metrics"
	"kitchenlog/internal/utils/storage"
	"kitchenlog/pkg/recipe"
	"kitchenlog/pkg/streak"
	"kitchenlog/pkg/user"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const RecentLogsLimit = 5

type (
	CookingLogService interface {
		CreateLog(ctx context.Context, userID string, req domain.CreateCookingLogRequest) (domain.CookingLogMutationResponse, error)
		GetLogs(ctx context.Context, userID string, page, limit int) ([]domain.CookingLogResponse, int64, error)
		GetLog(ctx context.Context, userID string, logID string) (domain.CookingLogResponse, error)
		UpdateLog(ctx context.Context, userID string, logID string, req domain.UpdateCookingLogRequest) (domain.CookingLogMutationResponse, error)
		DeleteLog(ctx context.Context, userID string, logID string) (int, error)
		UploadLogImage(ctx context.Context, userID string, logID string, file *multipart.FileHeader) (domain.CookingLogResponse, error)
		GetHome(ctx context.Context, userID string) (domain.HomeResponse, error)
	}

	cookingLogService struct {
		db                   *gorm.DB
		cookingLogRepository CookingLogRepository
		recipeRepository     recipe.RecipeRepository
		userRepository       user.UserRepository
		s3                   storage.AwsS3
		calendar             *streak.Calendar
		metrics              *metrics.Metrics
		log                  *zap.Logger
	}
)

func NewCookingLogService(
	db *gorm.DB,
	cookingLogRepository CookingLogRepository,
	recipeRepository recipe.RecipeRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
	calendar *streak.Calendar,
	metrics *metrics.Metrics,
	log *zap.Logger,
) CookingLogService {
	return &cookingLogService{
		db:                   db,
		cookingLogRepository: cookingLogRepository,
		recipeRepository:     recipeRepository,
		userRepository:       userRepository,
		s3:                   s3,
		calendar:             calendar,
		metrics:              metrics,
		log:                  log,
	}
}

func ToCookingLogResponse(l *entities.CookingLog) domain.CookingLogResponse {
	res := domain.CookingLogResponse{
		ID:              l.ID.String(),
		RecipeID:        l.RecipeID.String(),
		DateCooked:      l.DateCooked.Format(domain.DateLayout),
		DurationSeconds: l.DurationSeconds,
		Rating:          l.Rating,
		Notes:           l.Notes,
		ImageURL:        l.ImageURL,
		CreatedAt:       l.CreatedAt,
	}
	if l.Recipe != nil {
		res.RecipeName = l.Recipe.Name
	}
	return res
}

// parseDate reads a YYYY-MM-DD date; an empty value means today in the
// configured zone.
func (s *cookingLogService) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.calendar.Today(), nil
	}
	d, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return streak.Date(d), nil
}

func validateMeasures(duration, rating *int) error {
	if duration != nil && *duration < 0 {
		return domain.ErrInvalidDuration
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return domain.ErrInvalidRating
	}
	return nil
}

func loadOwnedLog(ctx context.Context, repo CookingLogRepository, uid uuid.UUID, logID string) (*entities.CookingLog, error) {
	if _, err := uuid.Parse(logID); err != nil {
		return nil, domain.ErrCookingLogNotFound
	}
	log, err := repo.GetLogByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCookingLogNotFound
		}
		return nil, err
	}
	if log.UserID != uid {
		return nil, domain.ErrUnauthorizedLogAccess
	}
	return log, nil
}

// CreateLog records a session for a recipe the caller can view and rebuilds
// the caller's streak in the same transaction.
func (s *cookingLogService) CreateLog(ctx context.Context, userID string, req domain.CreateCookingLogRequest) (domain.CookingLogMutationResponse, error) {
	uid, err := recipe.ParseUserID(userID)
	if err != nil {
		return domain.CookingLogMutationResponse{}, err
	}
	rec, err := recipe.LoadRecipe(ctx, s.recipeRepository, req.RecipeID)
	if err != nil {
		return domain.CookingLogMutationResponse{}, err
	}
	if !recipe.CanView(uid, rec) {
		return domain.CookingLogMutationResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	dateCooked, err := s.parseDate(req.DateCooked)
	if err != nil {
		return domain.CookingLogMutationResponse{}, err
	}
	if err := validateMeasures(req.DurationSeconds, req.Rating); err != nil {
		return domain.CookingLogMutationResponse{}, err
	}

	log := &entities.CookingLog{
		UserID:          uid,
		RecipeID:        rec.ID,
		DateCooked:      dateCooked,
		DurationSeconds: req.DurationSeconds,
		Rating:          req.Rating,
		Notes:           strings.TrimSpace(req.Notes),
	}

	var result streak.Result
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cookingLogRepository.WithTx(tx).CreateLog(ctx, log); err != nil {
			return err
		}
		var err error
		result, err = streak.NewStore(tx).Recompute(ctx, userID)
		return err
	})
	if err != nil {
		return domain.CookingLogMutationResponse{}, fmt.Errorf("create cooking log: %w", err)
	}

	s.metrics.CookingLog("create")
	log.Recipe = rec
	return domain.CookingLogMutationResponse{
		Log:           ToCookingLogResponse(log),
		CurrentStreak: s.calendar.Effective(result.Current, result.LastCooked),
	}, nil
}

func (s *cookingLogService) GetLogs(ctx context.Context, userID string, page, limit int) ([]domain.CookingLogResponse, int64, error) {
	logs, count, err := s.cookingLogRepository.GetLogsByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]domain.CookingLogResponse, 0, len(logs))
	for i := range logs {
		res = append(res, ToCookingLogResponse(&logs[i]))
	}
	return res, count, nil
}

func (s *cookingLogService) GetLog(ctx context.Context, userID string, logID string) (domain.CookingLogResponse, error) {
	uid, err := recipe.ParseUserID(userID)
	if err != nil {
		return domain.CookingLogResponse{}, err
	}
	log, err := loadOwnedLog(ctx, s.cookingLogRepository, uid, logID)
	if err != nil {
		return domain.CookingLogResponse{}, err
	}
	return ToCookingLogResponse(log), nil
}

// UpdateLog changes only the fields present in req. The owner and recipe of a
// log never change.
func (s *cookingLogService) UpdateLog(ctx context.Context, userID string, logID string, req domain.UpdateCookingLogRequest) (domain.CookingLogMutationResponse, error) {
	uid, err := recipe.ParseUserID(userID)
	if err != nil {
		return domain.CookingLogMutationResponse{}, err
	}
	if err := validateMeasures(req.DurationSeconds, req.Rating); err != nil {
		return domain.CookingLogMutationResponse{}, err
	}

	var (
		log    *entities.CookingLog
		result streak.Result
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.cookingLogRepository.WithTx(tx)

		var err error
		log, err = loadOwnedLog(ctx, repo, uid, logID)
		if err != nil {
			return err
		}

		if strings.TrimSpace(req.DateCooked) != "" {
			if log.DateCooked, err = s.parseDate(req.DateCooked); err != nil {
				return err
			}
		}
		if req.DurationSeconds != nil {
			log.DurationSeconds = req.DurationSeconds
		}
		if req.Rating != nil {
			log.Rating = req.Rating
		}
		if req.Notes != nil {
			log.Notes = strings.TrimSpace(*req.Notes)
		}

		if err := repo.UpdateLog(ctx, log); err != nil {
			return err
		}
		result, err = streak.NewStore(tx).Recompute(ctx, userID)
		return err
	})
	if err != nil {
		return domain.CookingLogMutationResponse{}, err
	}

	s.metrics.CookingLog("update")
	return domain.CookingLogMutationResponse{
		Log:           ToCookingLogResponse(log),
		CurrentStreak: s.calendar.Effective(result.Current, result.LastCooked),
	}, nil
}

// DeleteLog removes a log and returns the caller's streak after the delete.
func (s *cookingLogService) DeleteLog(ctx context.Context, userID string, logID string) (int, error) {
	uid, err := recipe.ParseUserID(userID)
	if err != nil {
		return 0, err
	}

	var (
		image  string
		result streak.Result
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.cookingLogRepository.WithTx(tx)

		log, err := loadOwnedLog(ctx, repo, uid, logID)
		if err != nil {
			return err
		}
		if err := repo.DeleteLog(ctx, logID); err != nil {
			return err
		}
		image = log.ImageURL
		result, err = streak.NewStore(tx).Recompute(ctx, userID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.metrics.CookingLog("delete")
	if key := s.s3.GetObjectKeyFromLink(image); key != "" {
		if err := s.s3.DeleteFile(ctx, key); err != nil {
			s.log.Warn("delete cooking log image", zap.String("key", key), zap.Error(err))
		}
	}
	return s.calendar.Effective(result.Current, result.LastCooked), nil
}

func (s *cookingLogService) UploadLogImage(ctx context.Context, userID string, logID string, file *multipart.FileHeader) (domain.CookingLogResponse, error) {
	uid, err := recipe.ParseUserID(userID)
	if err != nil {
		return domain.CookingLogResponse{}, err
	}
	log, err := loadOwnedLog(ctx, s.cookingLogRepository, uid, logID)
	if err != nil {
		return domain.CookingLogResponse{}, err
	}

	key, err := s.s3.UploadFile(ctx, logID, file, "cooking-logs", storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.CookingLogResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
		}
		return domain.CookingLogResponse{}, err
	}

	old := s.s3.GetObjectKeyFromLink(log.ImageURL)
	log.ImageURL = s.s3.GetPublicLinkKey(key)
	if err := s.cookingLogRepository.UpdateLog(ctx, log); err != nil {
		return domain.CookingLogResponse{}, err
	}
	if old != "" && old != key {
		if err := s.s3.DeleteFile(ctx, old); err != nil {
			s.log.Warn("delete cooking log image", zap.String("key", old), zap.Error(err))
		}
	}
	return ToCookingLogResponse(log), nil
}

// GetHome returns the dashboard: the user, their current streak and the most
// recent sessions.
func (s *cookingLogService) GetHome(ctx context.Context, userID string) (domain.HomeResponse, error) {
	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.HomeResponse{}, domain.ErrUserNotFound
		}
		return domain.HomeResponse{}, err
	}

	logs, err := s.cookingLogRepository.GetRecentLogs(ctx, userID, RecentLogsLimit)
	if err != nil {
		return domain.HomeResponse{}, err
	}

	profile := user.ToUserResponse(u, s.calendar)
	res := domain.HomeResponse{
		User:          profile,
		CurrentStreak: profile.CurrentStreak,
		RecentLogs:    make([]domain.CookingLogResponse, 0, len(logs)),
	}
	for i := range logs {
		res.RecentLogs = append(res.RecentLogs, ToCookingLogResponse(&logs[i]))
	}
	return res, nil
}
