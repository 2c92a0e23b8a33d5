package config

import (
	"context"
	"errors"
	"fmt"
	"kitchenlog/domain"
	"kitchenlog/internal/api/handlers"
	"kitchenlog/internal/api/presenters"
	"kitchenlog/internal/api/routes"
	"kitchenlog/internal/middleware"
	"kitchenlog/internal/utils"
	"kitchenlog/internal/utils/mailing"
	"kitchenlog/internal/utils/metrics"
	"kitchenlog/internal/utils/storage"
	"kitchenlog/pkg/cookinglog"
	"kitchenlog/pkg/jwt"
	"kitchenlog/pkg/recipe"
	"kitchenlog/pkg/session"
	"kitchenlog/pkg/share"
	"kitchenlog/pkg/stats"
	"kitchenlog/pkg/streak"
	"kitchenlog/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the external collaborators the HTTP application is built on.
type Dependencies struct {
	Log            *zap.Logger
	Storage        storage.AwsS3
	Mailer         mailing.Mailer
	Sessions       session.Store
	Calendar       *streak.Calendar
	JWTService     jwt.JWTService
	Metrics        *metrics.Metrics
	MetricsHandler fiber.Handler
	AppURL         string
	CORSOrigins    string
	UserOptions    []user.Option
}

func NewApp(db *gorm.DB, log *zap.Logger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:      "kitchenlog",
		ErrorHandler: errorHandler(log),
	})

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening access log: %w", err)
	}
	app.Hooks().OnShutdown(file.Close)

	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfig("TIMEZONE"),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetConfigInt("RATE_LIMIT", 20),
		Expiration: 1 * time.Second,
	}))

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)
	app.Use(appMetrics.Middleware())

	// utils
	calendar, err := streak.LoadCalendar(utils.GetConfig("TIMEZONE"))
	if err != nil {
		return nil, err
	}
	sessions, err := newSessionStore(app, log)
	if err != nil {
		return nil, err
	}
	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}

	Register(app, db, Dependencies{
		Log:            log,
		Storage:        storage.NewAwsS3(),
		Mailer:         mailing.NewMailer(mailing.LoadMailConfig()),
		Sessions:       sessions,
		Calendar:       calendar,
		JWTService:     jwt.NewJWTService(secret),
		Metrics:        appMetrics,
		MetricsHandler: adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		AppURL:         utils.GetConfig("APP_URL"),
		CORSOrigins:    utils.GetConfig("CORS_ORIGINS"),
	})
	return app, nil
}

// Register wires repositories, services and handlers onto app.
func Register(app *fiber.App, db *gorm.DB, deps Dependencies) {
	utils.InitValidator()
	validator := utils.Validate
	middlewares := middleware.NewMiddleware(deps.CORSOrigins, deps.Sessions)

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	cookingLogRepository := cookinglog.NewCookingLogRepository(db)
	noticeRepository := share.NewNoticeRepository(db)

	// Service
	userService := user.NewUserService(
		userRepository,
		deps.JWTService,
		deps.Sessions,
		deps.Storage,
		deps.Calendar,
		deps.Log,
		deps.UserOptions...,
	)
	recipeService := recipe.NewRecipeService(db, recipeRepository, deps.Storage, deps.Log)
	cookingLogService := cookinglog.NewCookingLogService(
		db,
		cookingLogRepository,
		recipeRepository,
		userRepository,
		deps.Storage,
		deps.Calendar,
		deps.Metrics,
		deps.Log,
	)
	shareService := share.NewShareService(
		db,
		recipeRepository,
		userRepository,
		noticeRepository,
		deps.Storage,
		deps.Mailer,
		deps.AppURL,
		deps.Metrics,
		deps.Log,
	)
	statsService := stats.NewStatsService(cookingLogRepository, userRepository, deps.Calendar)

	// Handler
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       handlers.NewUserHandler(userService, cookingLogService, validator, deps.Log),
		RecipeHandler:     handlers.NewRecipeHandler(recipeService, validator, deps.Log),
		CookingLogHandler: handlers.NewCookingLogHandler(cookingLogService, validator, deps.Log),
		ShareHandler:      handlers.NewShareHandler(shareService, validator, deps.Log),
		StatsHandler:      handlers.NewStatsHandler(statsService, deps.Log),
		Middleware:        middlewares,
		JWTService:        deps.JWTService,
		MetricsHandler:    deps.MetricsHandler,
	}
	routesConfig.Setup()
}

// newSessionStore uses Redis when REDIS_ADDR is set and an in-process store otherwise.
func newSessionStore(app *fiber.App, log *zap.Logger) (session.Store, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		log.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
		return session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       utils.GetConfigInt("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	app.Hooks().OnShutdown(client.Close)
	return session.NewRedisStore(client), nil
}

// errorHandler renders errors that escape the handlers (unknown routes, limiter, panics
// surfaced by fiber) in the same envelope as handler errors.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code == fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			return presenters.ErrorResponse(c, code, domain.MessageInternalError, errors.New(domain.MessageInternalError))
		}
		return presenters.ErrorResponse(c, code, domain.MessageFailedProcessRequest, err)
	}
}
