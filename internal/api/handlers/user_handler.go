package handlers

import (
	"kitchenlog/domain"
	"kitchenlog/internal/api/presenters"
	"kitchenlog/pkg/cookinglog"
	"kitchenlog/pkg/user"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		UpdateUser(c *fiber.Ctx) error
		UploadProfilePicture(c *fiber.Ctx) error
		SearchUsers(c *fiber.Ctx) error
		Home(c *fiber.Ctx) error
	}

	userHandler struct {
		errorResponder
		userService       user.UserService
		cookingLogService cookinglog.CookingLogService
		validator         *validator.Validate
	}
)

func NewUserHandler(
	userService user.UserService,
	cookingLogService cookinglog.CookingLogService,
	validator *validator.Validate,
	log *zap.Logger,
) UserHandler {
	return &userHandler{
		errorResponder:    errorResponder{log: log},
		userService:       userService,
		cookingLogService: cookingLogService,
		validator:         validator,
	}
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedRegister, err)
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return h.fail(c, domain.MessageFailedRegister, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedLogin, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return h.fail(c, domain.MessageFailedLogin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) Logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals("token_id").(string)
	expiresAt, _ := c.Locals("token_expires_at").(time.Time)

	if err := h.userService.Logout(c.Context(), tokenID, expiresAt); err != nil {
		return h.fail(c, domain.MessageFailedLogout, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessLogout)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	res, err := h.userService.GetUser(c.Context(), currentUserID(c))
	if err != nil {
		return h.fail(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) UpdateUser(c *fiber.Ctx) error {
	req := new(domain.UpdateProfileRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedUpdateUser, err)
	}

	res, err := h.userService.UpdateProfile(c.Context(), currentUserID(c), *req)
	if err != nil {
		return h.fail(c, domain.MessageFailedUpdateUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateUser)
}

func (h *userHandler) UploadProfilePicture(c *fiber.Ctx) error {
	req := new(domain.UploadProfilePictureRequest)
	file, err := c.FormFile("picture")
	if err != nil {
		return invalidBody(c, err)
	}
	req.Picture = file

	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedUploadPicture, err)
	}

	res, err := h.userService.UploadProfilePicture(c.Context(), currentUserID(c), req.Picture)
	if err != nil {
		return h.fail(c, domain.MessageFailedUploadPicture, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadPicture)
}

func (h *userHandler) SearchUsers(c *fiber.Ctx) error {
	res, err := h.userService.SearchUsers(c.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		return h.fail(c, domain.MessageFailedSearchUsers, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchUsers)
}

func (h *userHandler) Home(c *fiber.Ctx) error {
	res, err := h.cookingLogService.GetHome(c.Context(), currentUserID(c))
	if err != nil {
		return h.fail(c, domain.MessageFailedGetHome, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetHome)
}
