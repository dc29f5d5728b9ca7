package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	health "github.com/soulteary/health-kit"
	logger "github.com/soulteary/logger-kit"
	middlewarekit "github.com/soulteary/middleware-kit"
	rediskit "github.com/soulteary/redis-kit/client"

	"github.com/soulteary/herald-pow/internal/config"
	"github.com/soulteary/herald-pow/internal/handler"
	"github.com/soulteary/herald-pow/internal/pow"
	"github.com/soulteary/herald-pow/internal/store"
)

// Setup creates the Fiber app and mounts routes. Call config.Initialize(log) before this.
func Setup(app *fiber.App, log *logger.Logger) (*pow.Manager, error) {
	cfg := rediskit.DefaultConfig().
		WithAddr(config.RedisAddr).
		WithPassword(config.RedisPassword).
		WithDB(config.RedisDB)
	redisClient, err := rediskit.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	rateIPTTL := time.Minute
	st := store.NewStore(redisClient, config.ChallengeTTL, config.TokenTTL, rateIPTTL)
	m := pow.NewManager(st, config.SecretKey, config.MaxDifficulty, config.ChallengeTTL)

	app.Use(recover.New())
	app.Use(logger.FiberMiddleware(logger.MiddlewareConfig{
		Logger:           log,
		SkipPaths:        []string{"/healthz"},
		IncludeRequestID: true,
		IncludeLatency:   true,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization,X-Service,X-Signature,X-Timestamp,X-API-Key,X-Key-Id",
	}))

	healthConfig := health.DefaultConfig().WithServiceName(config.ServiceName)
	healthAgg := health.NewAggregator(healthConfig)
	healthAgg.AddChecker(health.NewRedisChecker(redisClient))
	app.Get("/healthz", health.FiberHandler(healthAgg))

	// Token check/revoke are for the protected backend, not browsers, so
	// they sit behind service auth. Challenge issuance and verification
	// stay public.
	zerologLogger := log.Zerolog()
	authHandler := middlewarekit.CombinedAuth(middlewarekit.AuthConfig{
		HMACConfig: &middlewarekit.HMACConfig{
			KeyProvider: config.GetHMACSecret,
		},
		APIKeyConfig: &middlewarekit.APIKeyConfig{
			APIKey: config.APIKey,
		},
		AllowNoAuth: config.AllowNoAuth(),
		Logger:      &zerologLogger,
	})

	api := app.Group("/api")
	api.Post("/pow-challenge", handler.CreateChallenge(m, st, log))
	api.Post("/pow-verify", handler.VerifySolution(m, log))
	api.Post("/pow-check-token", authHandler, handler.CheckToken(m, log))
	api.Post("/pow-revoke-token", authHandler, handler.RevokeToken(m, log))

	if config.EnableHTMLPages {
		app.Get("/", handler.ChallengePage(m, st, log))
		app.Get("/verify", handler.VerifyPage(m, log))
	}

	return m, nil
}
