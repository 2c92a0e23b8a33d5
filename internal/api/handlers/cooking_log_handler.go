package handlers

import (
	"kitchenlog/domain"
	"kitchenlog/internal/api/presenters"
	"kitchenlog/pkg/cookinglog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type (
	CookingLogHandler interface {
		CreateLog(c *fiber.Ctx) error
		GetLogs(c *fiber.Ctx) error
		GetLog(c *fiber.Ctx) error
		UpdateLog(c *fiber.Ctx) error
		DeleteLog(c *fiber.Ctx) error
		UploadLogImage(c *fiber.Ctx) error
	}

	cookingLogHandler struct {
		errorResponder
		cookingLogService cookinglog.CookingLogService
		validator         *validator.Validate
	}
)

func NewCookingLogHandler(cookingLogService cookinglog.CookingLogService, validator *validator.Validate, log *zap.Logger) CookingLogHandler {
	return &cookingLogHandler{
		errorResponder:    errorResponder{log: log},
		cookingLogService: cookingLogService,
		validator:         validator,
	}
}

func (h *cookingLogHandler) CreateLog(c *fiber.Ctx) error {
	req := new(domain.CreateCookingLogRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedCreateLog, err)
	}

	res, err := h.cookingLogService.CreateLog(c.Context(), currentUserID(c), *req)
	if err != nil {
		return h.fail(c, domain.MessageFailedCreateLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateLog)
}

func (h *cookingLogHandler) GetLogs(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	logs, count, err := h.cookingLogService.GetLogs(c.Context(), currentUserID(c), page, limit)
	if err != nil {
		return h.fail(c, domain.MessageFailedGetLogs, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{
		"logs":       logs,
		"pagination": domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetLogs)
}

func (h *cookingLogHandler) GetLog(c *fiber.Ctx) error {
	res, err := h.cookingLogService.GetLog(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, domain.MessageFailedGetLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLog)
}

func (h *cookingLogHandler) UpdateLog(c *fiber.Ctx) error {
	req := new(domain.UpdateCookingLogRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedUpdateLog, err)
	}

	res, err := h.cookingLogService.UpdateLog(c.Context(), currentUserID(c), c.Params("id"), *req)
	if err != nil {
		return h.fail(c, domain.MessageFailedUpdateLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateLog)
}

func (h *cookingLogHandler) DeleteLog(c *fiber.Ctx) error {
	streak, err := h.cookingLogService.DeleteLog(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, domain.MessageFailedDeleteLog, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"current_streak": streak}, fiber.StatusOK, domain.MessageSuccessDeleteLog)
}

func (h *cookingLogHandler) UploadLogImage(c *fiber.Ctx) error {
	req := new(domain.UploadLogImageRequest)
	file, err := c.FormFile("image")
	if err != nil {
		return invalidBody(c, err)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedUploadLogImage, err)
	}

	res, err := h.cookingLogService.UploadLogImage(c.Context(), currentUserID(c), c.Params("id"), req.Image)
	if err != nil {
		return h.fail(c, domain.MessageFailedUploadLogImage, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadLogImage)
}
