package handlers

import (
	"github.com/Devik-code/rust-ai-auditor/internal/apperr"
	"github.com/Devik-code/rust-ai-auditor/internal/http/dto"
	"github.com/Devik-code/rust-ai-auditor/internal/middleware"
	"github.com/Devik-code/rust-ai-auditor/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditService *services.AuditService
	log          *zap.Logger
}

func NewAuditHandler(auditService *services.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, log: log}
}

func (h *AuditHandler) CreateAudit(c *fiber.Ctx) error {
	var req dto.CreateAuditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	if req.Prompt == "" || req.GeneratedCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "prompt and generated_code are required"})
	}

	audit, err := h.auditService.Create(c.Context(), req.Prompt, req.GeneratedCode)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: audit})
}

func (h *AuditHandler) GetAudit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid audit id"})
	}

	audit, err := h.auditService.Get(c.Context(), id)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: audit})
}

func (h *AuditHandler) ListAudits(c *fiber.Ctx) error {
	audits, err := h.auditService.List(c.Context())
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: audits})
}

// mapError translates the error taxonomy into responses. Raw toolchain and
// store errors never reach the caller; they are logged here in full.
func (h *AuditHandler) mapError(c *fiber.Ctx, err error) error {
	reqID := middleware.GetRequestID(c)

	kind, ok := apperr.KindOf(err)
	if !ok {
		h.log.Error("unclassified failure", zap.String("request_id", reqID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error", RequestID: reqID})
	}

	switch kind {
	case apperr.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "audit not found", RequestID: reqID})
	case apperr.KindToolchain:
		h.log.Error("toolchain failure", zap.String("request_id", reqID), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "validation temporarily unavailable", RequestID: reqID})
	case apperr.KindPersistence:
		h.log.Error("persistence failure", zap.String("request_id", reqID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error", RequestID: reqID})
	default:
		h.log.Error("unknown error kind", zap.String("request_id", reqID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error", RequestID: reqID})
	}
}
