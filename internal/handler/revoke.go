package handler

import (
	"github.com/gofiber/fiber/v2"
	logger "github.com/soulteary/logger-kit"
	secure "github.com/soulteary/secure-kit"

	"github.com/soulteary/herald-pow/internal/pow"
	"github.com/soulteary/herald-pow/internal/token"
)

// RevokeTokenRequest is the request body for POST /api/pow-revoke-token.
type RevokeTokenRequest struct {
	Token string `json:"token"`
}

// RevokeTokenResponse is the response for POST /api/pow-revoke-token.
type RevokeTokenResponse struct {
	OK bool `json:"ok"`
}

// RevokeToken handles POST /api/pow-revoke-token: drop the token marker so
// the token stops validating before its TTL lapses.
func RevokeToken(m *pow.Manager, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RevokeTokenRequest
		if err := c.BodyParser(&req); err != nil {
			return respondBadRequest(c, "invalid_request", err.Error())
		}
		if _, _, _, ok := token.Split(req.Token); !ok {
			return respondBadRequest(c, "invalid_request", "malformed token")
		}

		if err := m.RevokeToken(c.Context(), req.Token); err != nil {
			log.Warn().Err(err).Msg("revoke token: store failure")
			return respondInternalError(c)
		}
		log.Info().Str("token", secure.MaskString(req.Token, 8)).Msg("token revoked")
		return c.JSON(RevokeTokenResponse{OK: true})
	}
}
