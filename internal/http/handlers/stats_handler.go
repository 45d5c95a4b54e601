package handlers

import (
	"github.com/Devik-code/rust-ai-auditor/internal/http/dto"
	"github.com/Devik-code/rust-ai-auditor/internal/middleware"
	"github.com/Devik-code/rust-ai-auditor/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type StatsHandler struct {
	statsService *services.StatsService
	log          *zap.Logger
}

func NewStatsHandler(statsService *services.StatsService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{statsService: statsService, log: log}
}

func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.statsService.Compute(c.Context())
	if err != nil {
		reqID := middleware.GetRequestID(c)
		h.log.Error("stats computation failed", zap.String("request_id", reqID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error", RequestID: reqID})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: stats})
}
