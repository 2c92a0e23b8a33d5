package config_test

import (
	"bytes"
	"encoding/json"
	"io"
	"kitchenlog/cmd/config"
	"kitchenlog/internal/testutil"
	"kitchenlog/pkg/jwt"
	"kitchenlog/pkg/session"
	"kitchenlog/pkg/streak"
	"kitchenlog/pkg/user"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type APISuite struct {
	suite.Suite
	app    *fiber.App
	mailer *testutil.FakeMailer
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	db := testutil.NewDB(s.T())
	today := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	s.mailer = &testutil.FakeMailer{}
	s.app = fiber.New()
	config.Register(s.app, db, config.Dependencies{
		Log:         zap.NewNop(),
		Storage:     testutil.NewFakeStorage(),
		Mailer:      s.mailer,
		Sessions:    session.NewMemoryStore(),
		Calendar:    streak.NewCalendar(time.UTC, func() time.Time { return today }),
		JWTService:  jwt.NewJWTService("test-secret"),
		AppURL:      "http://kitchenlog.test",
		CORSOrigins: "*",
		UserOptions: []user.Option{user.WithBcryptCost(bcrypt.MinCost)},
	})
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (s *APISuite) do(method, path, token string, body any) (int, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer res.Body.Close()

	var env envelope
	_ = json.NewDecoder(res.Body).Decode(&env)
	return res.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (s *APISuite) signUp(username string) string {
	status, env := s.do(http.MethodPost, "/api/v1/users/register", "", fiber.Map{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	s.Require().Equal(http.StatusCreated, status, env.Error)

	status, env = s.do(http.MethodPost, "/api/v1/users/login", "", fiber.Map{
		"identifier": username,
		"password":   "password123",
	})
	s.Require().Equal(http.StatusOK, status, env.Error)
	login := decode[struct {
		Token string `json:"token"`
	}](s.T(), env)
	return login.Token
}

func (s *APISuite) createRecipe(token, name string) string {
	status, env := s.do(http.MethodPost, "/api/v1/recipes", token, fiber.Map{
		"name":         name,
		"category":     "Dinner",
		"time":         25,
		"ingredients":  "eggs, butter , ,salt",
		"instructions": "cook",
	})
	s.Require().Equal(http.StatusCreated, status, env.Error)
	r := decode[struct {
		ID          string   `json:"id"`
		Ingredients []string `json:"ingredients"`
	}](s.T(), env)
	s.Equal([]string{"eggs", "butter", "salt"}, r.Ingredients)
	return r.ID
}

func (s *APISuite) TestPing() {
	status, _ := s.do(http.MethodGet, "/api/ping", "", nil)
	s.Equal(http.StatusOK, status)
}

func (s *APISuite) TestProtectedRoutesRequireToken() {
	for _, path := range []string{"/api/v1/recipes", "/api/v1/logs", "/api/v1/inbox", "/api/v1/stats", "/api/v1/home"} {
		status, env := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, status, path)
		s.False(env.Status)
	}

	status, _ := s.do(http.MethodGet, "/api/v1/users/me", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *APISuite) TestRegisterValidation() {
	status, env := s.do(http.MethodPost, "/api/v1/users/register", "", fiber.Map{
		"username":         "al",
		"email":            "nope",
		"password":         "short",
		"confirm_password": "different",
	})
	s.Equal(http.StatusBadRequest, status)
	s.NotEmpty(env.Error)
}

func (s *APISuite) TestDuplicateUsernameIsBadRequest() {
	s.signUp("alice")

	status, _ := s.do(http.MethodPost, "/api/v1/users/register", "", fiber.Map{
		"username":         "alice",
		"email":            "other@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	s.Equal(http.StatusBadRequest, status)
}

func (s *APISuite) TestLogoutRevokesToken() {
	token := s.signUp("alice")

	status, _ := s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.do(http.MethodPost, "/api/v1/users/logout", token, nil)
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *APISuite) TestLoginWithWrongPassword() {
	s.signUp("alice")

	status, _ := s.do(http.MethodPost, "/api/v1/users/login", "", fiber.Map{
		"identifier": "alice@example.com",
		"password":   "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, status)
}

func (s *APISuite) TestStrangerGetsForbidden() {
	alice := s.signUp("alice")
	bob := s.signUp("bob")
	recipeID := s.createRecipe(alice, "Omelette")

	status, env := s.do(http.MethodGet, "/api/v1/recipes/"+recipeID, bob, nil)
	s.Equal(http.StatusForbidden, status)
	s.False(env.Status)

	status, _ = s.do(http.MethodPost, "/api/v1/logs", bob, fiber.Map{"recipe_id": recipeID})
	s.Equal(http.StatusForbidden, status)

	status, _ = s.do(http.MethodPost, "/api/v1/recipes/clone", bob, fiber.Map{"recipe_id": recipeID})
	s.Equal(http.StatusForbidden, status)

	status, _ = s.do(http.MethodDelete, "/api/v1/recipes/"+recipeID, bob, nil)
	s.Equal(http.StatusForbidden, status)
}

func (s *APISuite) TestUnknownRecipeIsNotFound() {
	alice := s.signUp("alice")

	status, _ := s.do(http.MethodGet, "/api/v1/recipes/2c1f4a52-8d0e-4bb4-9a55-3f1f0c0e9d11", alice, nil)
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, "/api/v1/recipes/not-a-uuid", alice, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *APISuite) TestNegativeTimeIsBadRequest() {
	alice := s.signUp("alice")

	status, _ := s.do(http.MethodPost, "/api/v1/recipes", alice, fiber.Map{
		"name":         "Toast",
		"category":     "Breakfast",
		"time":         -5,
		"ingredients":  []string{"bread"},
		"instructions": "toast it",
	})
	s.Equal(http.StatusBadRequest, status)
}

func (s *APISuite) TestShareThenCloneFlow() {
	alice := s.signUp("alice")
	bob := s.signUp("bob")
	recipeID := s.createRecipe(alice, "Omelette")

	status, env := s.do(http.MethodPost, "/api/v1/recipes/"+recipeID+"/whitelist", alice, fiber.Map{"username": "bob"})
	s.Require().Equal(http.StatusOK, status, env.Error)

	status, _ = s.do(http.MethodPost, "/api/v1/recipes/"+recipeID+"/whitelist", bob, fiber.Map{"username": "bob"})
	s.Equal(http.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, "/api/v1/recipes/"+recipeID, bob, nil)
	s.Equal(http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/inbox", bob, nil)
	s.Require().Equal(http.StatusOK, status)
	inbox := decode[[]struct {
		RecipeID   string `json:"recipe_id"`
		SharerName string `json:"sharer_name"`
	}](s.T(), env)
	s.Require().Len(inbox, 1)
	s.Equal(recipeID, inbox[0].RecipeID)
	s.Equal("alice", inbox[0].SharerName)
	s.Equal(1, s.mailer.Count())

	status, env = s.do(http.MethodPost, "/api/v1/recipes/clone", bob, fiber.Map{"recipe_id": recipeID})
	s.Require().Equal(http.StatusCreated, status, env.Error)
	clone := decode[struct {
		Recipe struct {
			Name string `json:"name"`
		} `json:"recipe"`
	}](s.T(), env)
	s.Equal("alice's Omelette (Clone)", clone.Recipe.Name)

	status, env = s.do(http.MethodGet, "/api/v1/recipes/shared", bob, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(decode[[]json.RawMessage](s.T(), env), 1)
}

func (s *APISuite) TestDeleteRecipeWithLogs() {
	alice := s.signUp("alice")
	recipeID := s.createRecipe(alice, "Omelette")

	status, env := s.do(http.MethodPost, "/api/v1/logs", alice, fiber.Map{
		"recipe_id":   recipeID,
		"date_cooked": "2026-03-10",
		"rating":      4,
	})
	s.Require().Equal(http.StatusCreated, status, env.Error)
	created := decode[struct {
		CurrentStreak int `json:"current_streak"`
	}](s.T(), env)
	s.Equal(1, created.CurrentStreak)

	status, _ = s.do(http.MethodDelete, "/api/v1/recipes/"+recipeID, alice, nil)
	s.Equal(http.StatusConflict, status)

	status, _ = s.do(http.MethodDelete, "/api/v1/recipes/"+recipeID+"?cascade=true", alice, nil)
	s.Require().Equal(http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/stats", alice, nil)
	s.Require().Equal(http.StatusOK, status)
	stats := decode[struct {
		TotalSessions int `json:"total_sessions"`
		CurrentStreak int `json:"current_streak"`
	}](s.T(), env)
	s.Equal(0, stats.TotalSessions)
	s.Equal(0, stats.CurrentStreak)
}

func (s *APISuite) TestHomeAndLogsPagination() {
	alice := s.signUp("alice")
	recipeID := s.createRecipe(alice, "Omelette")

	for _, day := range []string{"2026-03-09", "2026-03-10", "2026-03-11"} {
		status, env := s.do(http.MethodPost, "/api/v1/logs", alice, fiber.Map{"recipe_id": recipeID, "date_cooked": day})
		s.Require().Equal(http.StatusCreated, status, env.Error)
	}

	status, env := s.do(http.MethodGet, "/api/v1/home", alice, nil)
	s.Require().Equal(http.StatusOK, status)
	home := decode[struct {
		CurrentStreak int               `json:"current_streak"`
		RecentLogs    []json.RawMessage `json:"recent_logs"`
	}](s.T(), env)
	s.Equal(3, home.CurrentStreak)
	s.Len(home.RecentLogs, 3)

	status, env = s.do(http.MethodGet, "/api/v1/logs?page=1&limit=2", alice, nil)
	s.Require().Equal(http.StatusOK, status)
	page := decode[struct {
		Logs []struct {
			DateCooked string `json:"date_cooked"`
		} `json:"logs"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
		} `json:"pagination"`
	}](s.T(), env)
	s.Require().Len(page.Logs, 2)
	s.Equal("2026-03-11", page.Logs[0].DateCooked)
	s.EqualValues(3, page.Pagination.Total)
	s.EqualValues(2, page.Pagination.TotalPages)
}

func (s *APISuite) TestInvalidRatingIsBadRequest() {
	alice := s.signUp("alice")
	recipeID := s.createRecipe(alice, "Omelette")

	status, _ := s.do(http.MethodPost, "/api/v1/logs", alice, fiber.Map{"recipe_id": recipeID, "rating": 6})
	s.Equal(http.StatusBadRequest, status)
}
