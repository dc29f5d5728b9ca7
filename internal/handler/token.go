package handler

import (
	"github.com/gofiber/fiber/v2"
	logger "github.com/soulteary/logger-kit"

	"github.com/soulteary/herald-pow/internal/metrics"
	"github.com/soulteary/herald-pow/internal/pow"
)

// CheckTokenRequest is the request body for POST /api/pow-check-token.
type CheckTokenRequest struct {
	Token string `json:"token"`
}

// CheckTokenResponse is the response for POST /api/pow-check-token.
type CheckTokenResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// CheckToken handles POST /api/pow-check-token. Validity is store
// membership only; the token's signature is not re-verified here, so a
// marker deleted before its TTL revokes the token immediately.
func CheckToken(m *pow.Manager, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CheckTokenRequest
		if err := c.BodyParser(&req); err != nil || req.Token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(CheckTokenResponse{
				Valid: false, Message: "token is required",
			})
		}

		exists, err := m.CheckToken(c.Context(), req.Token)
		if err != nil {
			log.Warn().Err(err).Msg("check token: store failure")
			return respondInternalError(c)
		}
		if !exists {
			metrics.RecordTokenCheck("invalid")
			return c.Status(fiber.StatusBadRequest).JSON(CheckTokenResponse{
				Valid: false, Message: "Invalid or expired token",
			})
		}
		metrics.RecordTokenCheck("valid")
		return c.JSON(CheckTokenResponse{Valid: true})
	}
}
