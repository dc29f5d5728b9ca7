package handler

import (
	"github.com/gofiber/fiber/v2"
	logger "github.com/soulteary/logger-kit"

	"github.com/soulteary/herald-pow/internal/config"
	"github.com/soulteary/herald-pow/internal/metrics"
	"github.com/soulteary/herald-pow/internal/pow"
	"github.com/soulteary/herald-pow/internal/store"
)

// ChallengeRequest is the request body for POST /api/pow-challenge.
type ChallengeRequest struct {
	Difficulty int `json:"difficulty"`
}

// ChallengeResponse is the response for POST /api/pow-challenge. The client
// needs all four fields to compute a solution.
type ChallengeResponse struct {
	ID         string `json:"id"`
	Prefix     string `json:"prefix"`
	Difficulty int    `json:"difficulty"`
	Timestamp  int64  `json:"timestamp"`
}

// CreateChallenge handles POST /api/pow-challenge.
func CreateChallenge(m *pow.Manager, st *store.Store, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := ChallengeRequest{Difficulty: config.DefaultDifficulty}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return respondBadRequest(c, "invalid_request", err.Error())
			}
		}

		ipCount, _ := st.IncrRateIP(c.Context(), c.IP())
		if ipCount > int64(config.RateLimitPerIP) {
			return respondRateLimited(c)
		}

		ch, err := m.Create(c.Context(), req.Difficulty)
		if err != nil {
			log.Warn().Err(err).Msg("challenge create failed")
			return respondInternalError(c)
		}
		metrics.RecordChallenge("json")
		return c.JSON(ChallengeResponse{
			ID:         ch.ID,
			Prefix:     ch.Prefix,
			Difficulty: ch.Difficulty,
			Timestamp:  ch.Timestamp,
		})
	}
}
