package stats

import (
	"context"
	"errors"
	"kitchenlog/domain"
	"kitchenlog/pkg/cookinglog"
	"kitchenlog/pkg/streak"
	"kitchenlog/pkg/user"

	"gorm.io/gorm"
)

type (
	StatsService interface {
		GetStatistics(ctx context.Context, userID string) (domain.StatisticsResponse, error)
	}

	statsService struct {
		cookingLogRepository cookinglog.CookingLogRepository
		userRepository       user.UserRepository
		calendar             *streak.Calendar
		topN                 int
	}
)

func NewStatsService(
	cookingLogRepository cookinglog.CookingLogRepository,
	userRepository user.UserRepository,
	calendar *streak.Calendar,
) StatsService {
	return &statsService{
		cookingLogRepository: cookingLogRepository,
		userRepository:       userRepository,
		calendar:             calendar,
		topN:                 DefaultTopN,
	}
}

func (s *statsService) GetStatistics(ctx context.Context, userID string) (domain.StatisticsResponse, error) {
	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.StatisticsResponse{}, domain.ErrUserNotFound
		}
		return domain.StatisticsResponse{}, err
	}

	logs, err := s.cookingLogRepository.GetAllLogsByUser(ctx, userID)
	if err != nil {
		return domain.StatisticsResponse{}, err
	}

	res := Aggregate(logs, s.calendar.Today(), s.topN)
	res.CurrentStreak = s.calendar.Effective(u.CurrentStreak, u.LastCookedDate)
	if u.LastCookedDate != nil {
		res.LastCookedDate = u.LastCookedDate.Format(domain.DateLayout)
	}
	return res, nil
}
