package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	logger "github.com/soulteary/logger-kit"

	"github.com/soulteary/herald-pow/internal/config"
	"github.com/soulteary/herald-pow/internal/metrics"
	"github.com/soulteary/herald-pow/internal/pow"
	"github.com/soulteary/herald-pow/internal/store"
)

// pageTemplate wraps a solver-script URL in a minimal page. The script
// reads its own query string, solves the challenge in the browser, and
// redirects to /verify.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Proof of Work Challenge</title>
    <script src="%s" defer ></script>
</head>
</html>`

// ChallengePage handles GET /: issue a challenge and return a page whose
// script src carries the challenge parameters. Same Manager as the JSON
// API; only the presentation differs.
// The "challege" query param is misspelled on purpose: the shipped solver
// script parses that exact name.
func ChallengePage(m *pow.Manager, st *store.Store, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ipCount, _ := st.IncrRateIP(c.Context(), c.IP())
		if ipCount > int64(config.RateLimitPerIP) {
			return respondRateLimited(c)
		}

		ch, err := m.Create(c.Context(), c.QueryInt("difficulty", config.DefaultDifficulty))
		if err != nil {
			log.Warn().Err(err).Msg("challenge page: create failed")
			return respondInternalError(c)
		}
		metrics.RecordChallenge("html")

		src := fmt.Sprintf("/pow.min.js?challege=%s&prefix=%s&difficulty=%d&timestamp=%d",
			ch.ID, ch.Prefix, ch.Difficulty, ch.Timestamp)
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(fmt.Sprintf(pageTemplate, src))
	}
}

// VerifyPage handles GET /verify?challenge=&nonce=&hash=: verify the
// solution and return a page whose script src hands the token back to the
// opener window.
func VerifyPage(m *pow.Manager, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		challengeID := c.Query("challenge")
		hash := c.Query("hash")
		nonce, err := strconv.ParseInt(c.Query("nonce"), 10, 64)
		if challengeID == "" || hash == "" || err != nil {
			return respondBadRequest(c, "invalid_request", "challenge, nonce and hash are required")
		}

		tok, err := m.Verify(c.Context(), challengeID, nonce, hash)
		if err != nil {
			return respondVerifyFailure(c, log, err)
		}
		metrics.RecordVerify("success", "")

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(fmt.Sprintf(pageTemplate, "/pow.min.js?token="+tok))
	}
}
