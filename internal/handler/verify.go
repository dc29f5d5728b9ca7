package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	logger "github.com/soulteary/logger-kit"

	"github.com/soulteary/herald-pow/internal/metrics"
	"github.com/soulteary/herald-pow/internal/pow"
)

// VerifyRequest is the request body for POST /api/pow-verify.
type VerifyRequest struct {
	ChallengeID string `json:"challengeId"`
	Nonce       int64  `json:"nonce"`
	Hash        string `json:"hash"`
}

// VerifyResponse is the response for POST /api/pow-verify.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// VerifySolution handles POST /api/pow-verify.
func VerifySolution(m *pow.Manager, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req VerifyRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(VerifyResponse{
				Success: false, Message: "invalid request",
			})
		}
		if req.ChallengeID == "" || req.Hash == "" {
			return c.Status(fiber.StatusBadRequest).JSON(VerifyResponse{
				Success: false, Message: "challengeId and hash are required",
			})
		}

		tok, err := m.Verify(c.Context(), req.ChallengeID, req.Nonce, req.Hash)
		if err != nil {
			return respondVerifyFailure(c, log, err)
		}
		metrics.RecordVerify("success", "")
		return c.JSON(VerifyResponse{Success: true, Token: tok})
	}
}

// respondVerifyFailure maps a Verify error onto the wire shape shared by
// the JSON and HTML adapters. Client faults keep the challenge retryable
// (where it still exists) and get 400; everything else is a server fault.
func respondVerifyFailure(c *fiber.Ctx, log *logger.Logger, err error) error {
	status := fiber.StatusBadRequest
	var message, reason string
	switch {
	case errors.Is(err, pow.ErrChallengeNotFound):
		message, reason = "Challenge not found or expired", "not_found"
	case errors.Is(err, pow.ErrChallengeExpired):
		message, reason = "Challenge expired", "expired"
	case errors.Is(err, pow.ErrInvalidSolution):
		message, reason = "Invalid solution", "invalid_solution"
	case errors.Is(err, pow.ErrNoSecretKey):
		status = fiber.StatusInternalServerError
		message, reason = "service misconfigured", "config_error"
		log.Warn().Msg("HERALD_POW_SECRET_KEY not set; refusing to mint tokens")
	default:
		status = fiber.StatusInternalServerError
		message, reason = "store unavailable", "store_error"
		log.Warn().Err(err).Msg("verify: store failure")
	}
	metrics.RecordVerify("failure", reason)
	return c.Status(status).JSON(VerifyResponse{Success: false, Message: message})
}
