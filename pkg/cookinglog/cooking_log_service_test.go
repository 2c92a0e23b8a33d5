package cookinglog

import (
	"context"
	"kitchenlog/domain"
	"kitchenlog/entities"
	"kitchenlog/internal/testutil"
	"kitchenlog/pkg/recipe"
	"kitchenlog/pkg/streak"
	"kitchenlog/pkg/user"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CookingLogServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	now     time.Time
	storage *testutil.FakeStorage
	service CookingLogService

	owner  *entities.User
	friend *entities.User
	pasta  *entities.Recipe
}

func TestCookingLogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CookingLogServiceTestSuite))
}

func (s *CookingLogServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())
	s.now = time.Date(2024, 5, 4, 18, 0, 0, 0, time.UTC)
	s.storage = testutil.NewFakeStorage()

	calendar := streak.NewCalendar(time.UTC, func() time.Time { return s.now })
	s.service = NewCookingLogService(
		s.db,
		NewCookingLogRepository(s.db),
		recipe.NewRecipeRepository(s.db),
		user.NewUserRepository(s.db),
		s.storage,
		calendar,
		nil,
		zap.NewNop(),
	)

	s.owner = testutil.CreateUser(s.T(), s.db, "alice")
	s.friend = testutil.CreateUser(s.T(), s.db, "bob")
	s.pasta = testutil.CreateRecipe(s.T(), s.db, s.owner, "Pasta")
}

func (s *CookingLogServiceTestSuite) logOn(u *entities.User, day string) domain.CookingLogMutationResponse {
	res, err := s.service.CreateLog(s.ctx, u.ID.String(), domain.CreateCookingLogRequest{
		RecipeID:   s.pasta.ID.String(),
		DateCooked: day,
	})
	s.Require().NoError(err)
	return res
}

func (s *CookingLogServiceTestSuite) storedStreak(u *entities.User) (int, *time.Time) {
	fresh := testutil.ReloadUser(s.T(), s.db, u)
	return fresh.CurrentStreak, fresh.LastCookedDate
}

func (s *CookingLogServiceTestSuite) TestCreateLog_GapBreaksStreak() {
	s.logOn(s.owner, "2024-05-01")
	s.logOn(s.owner, "2024-05-02")
	res := s.logOn(s.owner, "2024-05-04")

	s.Equal(1, res.CurrentStreak)
	s.Equal("2024-05-04", res.Log.DateCooked)
	s.Equal("Pasta", res.Log.RecipeName)

	current, last := s.storedStreak(s.owner)
	s.Equal(1, current)
	s.Require().NotNil(last)
	s.Equal("2024-05-04", last.Format(domain.DateLayout))
}

func (s *CookingLogServiceTestSuite) TestCreateLog_ConsecutiveDays() {
	s.now = time.Date(2024, 5, 5, 9, 0, 0, 0, time.UTC)
	for _, day := range []string{"2024-05-03", "2024-05-01", "2024-05-05", "2024-05-02", "2024-05-04"} {
		s.logOn(s.owner, day)
	}

	current, _ := s.storedStreak(s.owner)
	s.Equal(5, current)
}

func (s *CookingLogServiceTestSuite) TestCreateLog_DefaultsToToday() {
	res := s.logOn(s.owner, "")

	s.Equal("2024-05-04", res.Log.DateCooked)
	s.Equal(1, res.CurrentStreak)
}

func (s *CookingLogServiceTestSuite) TestCreateLog_Validation() {
	bad := 6
	_, err := s.service.CreateLog(s.ctx, s.owner.ID.String(), domain.CreateCookingLogRequest{
		RecipeID: s.pasta.ID.String(),
		Rating:   &bad,
	})
	s.ErrorIs(err, domain.ErrInvalidRating)

	negative := -1
	_, err = s.service.CreateLog(s.ctx, s.owner.ID.String(), domain.CreateCookingLogRequest{
		RecipeID:        s.pasta.ID.String(),
		DurationSeconds: &negative,
	})
	s.ErrorIs(err, domain.ErrInvalidDuration)

	_, err = s.service.CreateLog(s.ctx, s.owner.ID.String(), domain.CreateCookingLogRequest{
		RecipeID:   s.pasta.ID.String(),
		DateCooked: "04/05/2024",
	})
	s.ErrorIs(err, domain.ErrInvalidDate)

	current, last := s.storedStreak(s.owner)
	s.Zero(current)
	s.Nil(last)
}

func (s *CookingLogServiceTestSuite) TestCreateLog_Access() {
	_, err := s.service.CreateLog(s.ctx, s.friend.ID.String(), domain.CreateCookingLogRequest{
		RecipeID: s.pasta.ID.String(),
	})
	s.ErrorIs(err, domain.ErrUnauthorizedRecipeAccess)

	testutil.Whitelist(s.T(), s.db, s.pasta, s.friend)
	res := s.logOn(s.friend, "2024-05-04")
	s.Equal(1, res.CurrentStreak)

	_, err = s.service.CreateLog(s.ctx, s.owner.ID.String(), domain.CreateCookingLogRequest{
		RecipeID: "00000000-0000-0000-0000-000000000000",
	})
	s.ErrorIs(err, domain.ErrRecipeNotFound)
}

func (s *CookingLogServiceTestSuite) TestUpdateLog_RecomputesFromScratch() {
	s.logOn(s.owner, "2024-05-01")
	s.logOn(s.owner, "2024-05-02")
	last := s.logOn(s.owner, "2024-05-04")

	rating := 5
	res, err := s.service.UpdateLog(s.ctx, s.owner.ID.String(), last.Log.ID, domain.UpdateCookingLogRequest{
		DateCooked: "2024-05-03",
		Rating:     &rating,
	})
	s.Require().NoError(err)
	s.Equal(3, res.CurrentStreak)
	s.Equal(5, *res.Log.Rating)

	current, lastCooked := s.storedStreak(s.owner)
	s.Equal(3, current)
	s.Equal("2024-05-03", lastCooked.Format(domain.DateLayout))
}

func (s *CookingLogServiceTestSuite) TestUpdateLog_OtherUsersLog() {
	res := s.logOn(s.owner, "2024-05-04")

	_, err := s.service.UpdateLog(s.ctx, s.friend.ID.String(), res.Log.ID, domain.UpdateCookingLogRequest{DateCooked: "2024-05-01"})
	s.ErrorIs(err, domain.ErrUnauthorizedLogAccess)

	_, err = s.service.GetLog(s.ctx, s.friend.ID.String(), res.Log.ID)
	s.ErrorIs(err, domain.ErrUnauthorizedLogAccess)

	_, err = s.service.GetLog(s.ctx, s.owner.ID.String(), "not-a-uuid")
	s.ErrorIs(err, domain.ErrCookingLogNotFound)
}

func (s *CookingLogServiceTestSuite) TestDeleteLog() {
	s.logOn(s.owner, "2024-05-03")
	last := s.logOn(s.owner, "2024-05-04")

	current, err := s.service.DeleteLog(s.ctx, s.owner.ID.String(), last.Log.ID)
	s.Require().NoError(err)
	s.Equal(1, current)

	all, _, err := s.service.GetLogs(s.ctx, s.owner.ID.String(), 1, 10)
	s.Require().NoError(err)
	s.Require().Len(all, 1)

	current, err = s.service.DeleteLog(s.ctx, s.owner.ID.String(), all[0].ID)
	s.Require().NoError(err)
	s.Zero(current)

	stored, lastCooked := s.storedStreak(s.owner)
	s.Zero(stored)
	s.Nil(lastCooked)
}

func (s *CookingLogServiceTestSuite) TestMutationsRollBackWhenStreakUpdateFails() {
	s.logOn(s.owner, "2024-05-03")
	last := s.logOn(s.owner, "2024-05-04")
	testutil.FailUpdates(s.T(), s.db, "users")

	countLogs := func() int64 {
		var n int64
		s.Require().NoError(s.db.Model(&entities.CookingLog{}).Where("user_id = ?", s.owner.ID).Count(&n).Error)
		return n
	}
	assertStreakKept := func() {
		current, lastCooked := s.storedStreak(s.owner)
		s.Equal(2, current)
		s.Require().NotNil(lastCooked)
		s.Equal("2024-05-04", lastCooked.Format(domain.DateLayout))
	}

	_, err := s.service.CreateLog(s.ctx, s.owner.ID.String(), domain.CreateCookingLogRequest{
		RecipeID:   s.pasta.ID.String(),
		DateCooked: "2024-05-02",
	})
	s.ErrorIs(err, testutil.ErrInjected)
	s.EqualValues(2, countLogs())
	assertStreakKept()

	_, err = s.service.DeleteLog(s.ctx, s.owner.ID.String(), last.Log.ID)
	s.ErrorIs(err, testutil.ErrInjected)
	s.EqualValues(2, countLogs())
	assertStreakKept()

	rating := 4
	_, err = s.service.UpdateLog(s.ctx, s.owner.ID.String(), last.Log.ID, domain.UpdateCookingLogRequest{
		DateCooked: "2024-05-01",
		Rating:     &rating,
	})
	s.ErrorIs(err, testutil.ErrInjected)
	assertStreakKept()

	kept, err := s.service.GetLog(s.ctx, s.owner.ID.String(), last.Log.ID)
	s.Require().NoError(err)
	s.Equal("2024-05-04", kept.DateCooked)
	s.Nil(kept.Rating)
}

func (s *CookingLogServiceTestSuite) TestStoredStreakMatchesRecomputation() {
	ids := []string{}
	for _, day := range []string{"2024-04-28", "2024-04-29", "2024-05-01", "2024-05-02", "2024-05-03"} {
		ids = append(ids, s.logOn(s.owner, day).Log.ID)
	}
	_, err := s.service.UpdateLog(s.ctx, s.owner.ID.String(), ids[0], domain.UpdateCookingLogRequest{DateCooked: "2024-04-30"})
	s.Require().NoError(err)
	_, err = s.service.DeleteLog(s.ctx, s.owner.ID.String(), ids[3])
	s.Require().NoError(err)

	dates, err := streak.NewStore(s.db).ListCookedDates(s.ctx, s.owner.ID.String())
	s.Require().NoError(err)
	want := streak.Recalculate(dates)

	current, last := s.storedStreak(s.owner)
	s.Equal(want.Current, current)
	s.Equal(1, current)
	s.True(want.LastCooked.Equal(*last))
}

func (s *CookingLogServiceTestSuite) TestGetLogs_NewestFirst() {
	s.logOn(s.owner, "2024-05-01")
	s.logOn(s.owner, "2024-05-03")
	s.logOn(s.owner, "2024-05-02")

	logs, total, err := s.service.GetLogs(s.ctx, s.owner.ID.String(), 1, 2)
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Require().Len(logs, 2)
	s.Equal("2024-05-03", logs[0].DateCooked)
	s.Equal("2024-05-02", logs[1].DateCooked)
}

func (s *CookingLogServiceTestSuite) TestGetHome_StreakLapses() {
	for _, day := range []string{"2024-04-27", "2024-04-28", "2024-04-29", "2024-04-30", "2024-05-01", "2024-05-02"} {
		s.logOn(s.owner, day)
	}

	home, err := s.service.GetHome(s.ctx, s.owner.ID.String())
	s.Require().NoError(err)
	s.Len(home.RecentLogs, RecentLogsLimit)
	s.Equal("2024-05-02", home.RecentLogs[0].DateCooked)
	s.Zero(home.CurrentStreak)

	current, _ := s.storedStreak(s.owner)
	s.Equal(6, current)

	s.now = time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)
	home, err = s.service.GetHome(s.ctx, s.owner.ID.String())
	s.Require().NoError(err)
	s.Equal(6, home.CurrentStreak)
	s.Equal(6, home.User.CurrentStreak)
}

func (s *CookingLogServiceTestSuite) TestUploadLogImage() {
	res := s.logOn(s.owner, "2024-05-04")

	_, err := s.service.UploadLogImage(s.ctx, s.owner.ID.String(), res.Log.ID, testutil.FileHeader("dish.gif"))
	s.ErrorIs(err, domain.ErrInvalidImageFormat)

	updated, err := s.service.UploadLogImage(s.ctx, s.owner.ID.String(), res.Log.ID, testutil.FileHeader("dish.png"))
	s.Require().NoError(err)
	s.Contains(updated.ImageURL, testutil.FakeBaseURL+"cooking-logs/")

	_, err = s.service.DeleteLog(s.ctx, s.owner.ID.String(), res.Log.ID)
	s.Require().NoError(err)
	s.Len(s.storage.Deleted, 1)
}
