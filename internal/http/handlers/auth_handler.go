package handlers

import (
	"crypto/subtle"

	"github.com/Devik-code/rust-ai-auditor/internal/auth"
	"github.com/Devik-code/rust-ai-auditor/internal/config"
	"github.com/Devik-code/rust-ai-auditor/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

// IssueToken exchanges a configured API key for a bearer JWT.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	if req.APIKey == "" || !h.keyAllowed(req.APIKey) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid api key"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, clientLabel(req.APIKey), h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("token generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.TokenResponse{Token: token})
}

func (h *AuthHandler) keyAllowed(key string) bool {
	ok := false
	for _, k := range h.cfg.APIKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			ok = true
		}
	}
	return ok
}

// clientLabel identifies the key in claims and logs without revealing it.
func clientLabel(key string) string {
	if len(key) <= 4 {
		return "key-" + key
	}
	return "key-" + key[len(key)-4:]
}
