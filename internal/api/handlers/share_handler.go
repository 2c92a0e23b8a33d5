package handlers

import (
	"kitchenlog/domain"
	"kitchenlog/internal/api/presenters"
	"kitchenlog/pkg/share"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type (
	ShareHandler interface {
		ShareRecipe(c *fiber.Ctx) error
		RevokeShare(c *fiber.Ctx) error
		CloneRecipe(c *fiber.Ctx) error
		GetInbox(c *fiber.Ctx) error
		DismissNotice(c *fiber.Ctx) error
	}

	shareHandler struct {
		errorResponder
		shareService share.ShareService
		validator    *validator.Validate
	}
)

func NewShareHandler(shareService share.ShareService, validator *validator.Validate, log *zap.Logger) ShareHandler {
	return &shareHandler{
		errorResponder: errorResponder{log: log},
		shareService:   shareService,
		validator:      validator,
	}
}

func (h *shareHandler) ShareRecipe(c *fiber.Ctx) error {
	req := new(domain.ShareRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedShareRecipe, err)
	}

	res, err := h.shareService.ShareRecipe(c.Context(), currentUserID(c), c.Params("id"), *req)
	if err != nil {
		return h.fail(c, domain.MessageFailedShareRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessShareRecipe)
}

func (h *shareHandler) RevokeShare(c *fiber.Ctx) error {
	if err := h.shareService.RevokeShare(c.Context(), currentUserID(c), c.Params("id"), c.Params("userId")); err != nil {
		return h.fail(c, domain.MessageFailedRevokeShare, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRevokeShare)
}

func (h *shareHandler) CloneRecipe(c *fiber.Ctx) error {
	req := new(domain.CloneRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidRequest(c, domain.MessageFailedCloneRecipe, err)
	}

	res, err := h.shareService.CloneRecipe(c.Context(), currentUserID(c), req.RecipeID)
	if err != nil {
		return h.fail(c, domain.MessageFailedCloneRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCloneRecipe)
}

func (h *shareHandler) GetInbox(c *fiber.Ctx) error {
	res, err := h.shareService.GetInbox(c.Context(), currentUserID(c))
	if err != nil {
		return h.fail(c, domain.MessageFailedGetInbox, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetInbox)
}

func (h *shareHandler) DismissNotice(c *fiber.Ctx) error {
	if err := h.shareService.DismissNotice(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return h.fail(c, domain.MessageFailedDismissNotice, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDismissNotice)
}
