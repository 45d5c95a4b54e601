package handlers

import (
	"github.com/Devik-code/rust-ai-auditor/internal/compiler"
	"github.com/Devik-code/rust-ai-auditor/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ToolchainHandler struct {
	checker compiler.Checker
	log     *zap.Logger
}

func NewToolchainHandler(checker compiler.Checker, log *zap.Logger) *ToolchainHandler {
	return &ToolchainHandler{checker: checker, log: log}
}

// GetToolchain probes the compiler and reports availability. An unavailable
// toolchain is a normal response here, not an error: the endpoint exists to
// observe exactly that condition.
func (h *ToolchainHandler) GetToolchain(c *fiber.Ctx) error {
	version, err := h.checker.Probe(c.Context())
	if err != nil {
		h.log.Warn("toolchain probe failed", zap.Error(err))
		return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ToolchainResponse{Available: false}})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ToolchainResponse{Available: true, Version: version}})
}
