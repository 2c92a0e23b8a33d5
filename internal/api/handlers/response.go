package handlers

import (
	"errors"
	"kitchenlog/domain"
	"kitchenlog/internal/api/presenters"
	"kitchenlog/internal/utils"
	"kitchenlog/internal/utils/storage"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ErrorStatus maps service errors to HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrCookingLogNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrShareTargetNotFound),
		errors.Is(err, domain.ErrNoticeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedRecipeAccess),
		errors.Is(err, domain.ErrUnauthorizedLogAccess):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeHasLogs):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenRevoked),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidRecipeTime),
		errors.Is(err, domain.ErrInvalidIngredients),
		errors.Is(err, domain.ErrIngredientsRequired),
		errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, storage.ErrFileTypeNotAllowed):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrStorageDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponder writes service errors. Unexpected errors are logged and
// replaced by a generic message.
type errorResponder struct {
	log *zap.Logger
}

func (e errorResponder) fail(c *fiber.Ctx, message string, err error) error {
	status := ErrorStatus(err)
	if status == fiber.StatusInternalServerError {
		e.log.Error(message,
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return presenters.ErrorResponse(c, status, message, errors.New(domain.MessageInternalError))
	}
	return presenters.ErrorResponse(c, status, message, err)
}

func invalidBody(c *fiber.Ctx, err error) error {
	return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
}

func invalidRequest(c *fiber.Ctx, message string, err error) error {
	return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, errors.New(utils.ValidationMessage(err)))
}

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func pageParams(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
