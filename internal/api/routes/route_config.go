package routes

import (
	"kitchenlog/internal/api/handlers"
	"kitchenlog/internal/middleware"
	"kitchenlog/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	CookingLogHandler handlers.CookingLogHandler
	ShareHandler      handlers.ShareHandler
	StatsHandler      handlers.StatsHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
	// MetricsHandler serves /metrics when set.
	MetricsHandler fiber.Handler
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Recipes()
	c.CookingLogs()
	c.Inbox()
	c.Stats()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	if c.MetricsHandler != nil {
		c.App.Get("/metrics", c.MetricsHandler)
	}
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/logout", c.auth(), c.UserHandler.Logout)
		user.Get("/me", c.auth(), c.UserHandler.Me)
		user.Patch("/update", c.auth(), c.UserHandler.UpdateUser)
		user.Post("/picture", c.auth(), c.UserHandler.UploadProfilePicture)
		user.Get("/search", c.auth(), c.UserHandler.SearchUsers)
	}
	c.App.Get("/api/v1/home", c.auth(), c.UserHandler.Home)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.auth())

	recipes.Get("", c.RecipeHandler.GetMyRecipes)
	recipes.Post("", c.RecipeHandler.CreateRecipe)
	recipes.Get("/shared", c.RecipeHandler.GetSharedWithMe)
	recipes.Post("/clone", c.ShareHandler.CloneRecipe)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
	recipes.Put("/:id", c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)
	recipes.Post("/:id/image", c.RecipeHandler.UploadRecipeImage)

	// sharing
	recipes.Post("/:id/whitelist", c.ShareHandler.ShareRecipe)
	recipes.Delete("/:id/whitelist/:userId", c.ShareHandler.RevokeShare)
}

func (c *Config) CookingLogs() {
	logs := c.App.Group("/api/v1/logs", c.auth())

	logs.Get("", c.CookingLogHandler.GetLogs)
	logs.Post("", c.CookingLogHandler.CreateLog)
	logs.Get("/:id", c.CookingLogHandler.GetLog)
	logs.Put("/:id", c.CookingLogHandler.UpdateLog)
	logs.Delete("/:id", c.CookingLogHandler.DeleteLog)
	logs.Post("/:id/image", c.CookingLogHandler.UploadLogImage)
}

func (c *Config) Inbox() {
	inbox := c.App.Group("/api/v1/inbox", c.auth())

	inbox.Get("", c.ShareHandler.GetInbox)
	inbox.Delete("/:id", c.ShareHandler.DismissNotice)
}

func (c *Config) Stats() {
	c.App.Get("/api/v1/stats", c.auth(), c.StatsHandler.GetStatistics)
}
