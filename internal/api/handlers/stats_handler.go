package handlers

import (
	"kitchenlog/domain"
	"kitchenlog/internal/api/presenters"
	"kitchenlog/pkg/stats"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type (
	StatsHandler interface {
		GetStatistics(c *fiber.Ctx) error
	}

	statsHandler struct {
		errorResponder
		statsService stats.StatsService
	}
)

func NewStatsHandler(statsService stats.StatsService, log *zap.Logger) StatsHandler {
	return &statsHandler{
		errorResponder: errorResponder{log: log},
		statsService:   statsService,
	}
}

func (h *statsHandler) GetStatistics(c *fiber.Ctx) error {
	res, err := h.statsService.GetStatistics(c.Context(), currentUserID(c))
	if err != nil {
		return h.fail(c, domain.MessageFailedGetStats, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetStats)
}
