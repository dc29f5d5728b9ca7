package config

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/soulteary/cli-kit/env"
	logger "github.com/soulteary/logger-kit"
)

var log *logger.Logger

var (
	Port     = env.Get("PORT", ":8085")
	LogLevel = env.Get("LOG_LEVEL", "info")

	// Redis
	RedisAddr     = env.Get("REDIS_ADDR", "localhost:6379")
	RedisPassword = env.Get("REDIS_PASSWORD", "")
	RedisDB       = env.GetInt("REDIS_DB", 0)

	// Proof-of-work parameters. MaxDifficulty bounds what clients may
	// request; out-of-range values are clamped, never rejected.
	MaxDifficulty     = env.GetInt("POW_MAX_DIFFICULTY", 6)
	DefaultDifficulty = env.GetInt("POW_DEFAULT_DIFFICULTY", 4)

	// Record lifetimes
	ChallengeTTL = env.GetDuration("CHALLENGE_TTL", 180*time.Second)
	TokenTTL     = env.GetDuration("TOKEN_TTL", time.Hour)

	// Token signing key (HMAC-SHA256); must stay out of logs and responses
	SecretKey = env.Get("HERALD_POW_SECRET_KEY", "")

	// Service auth for token check/revoke: API Key or HMAC
	APIKey       = env.Get("API_KEY", "")
	HMACSecret   = env.Get("HMAC_SECRET", "")
	HMACKeysJSON = env.Get("HERALD_POW_HMAC_KEYS", "")
	ServiceName  = env.Get("SERVICE_NAME", "herald-pow")

	hmacKeysMap      map[string]string
	hmacDefaultKeyID string

	// Rate limit: challenge issuance per client IP, per minute
	RateLimitPerIP = env.GetInt("RATE_LIMIT_PER_IP", 60)

	// HTML adapter: when false, only the JSON API is mounted
	EnableHTMLPages = ParseBoolEnv("ENABLE_HTML_PAGES", true)
)

// Initialize sets the logger and parses HMAC keys if present.
func Initialize(l *logger.Logger) {
	log = l
	if HMACKeysJSON != "" {
		if err := parseHMACKeys(); err != nil {
			log.Warn().Err(err).Msg("Failed to parse HERALD_POW_HMAC_KEYS")
		} else {
			for keyID := range hmacKeysMap {
				hmacDefaultKeyID = keyID
				break
			}
		}
	}
}

func parseHMACKeys() error {
	return json.Unmarshal([]byte(HMACKeysJSON), &hmacKeysMap)
}

// ParseBoolEnv reads an env var as bool: "true"/"1"/"yes" (case-insensitive) = true, "false"/"0"/etc = false, empty = defaultVal.
func ParseBoolEnv(key string, defaultVal bool) bool {
	v := strings.ToLower(strings.TrimSpace(env.Get(key, "")))
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1" || v == "yes"
}

// GetHMACSecret returns the HMAC secret for the given key ID.
func GetHMACSecret(keyID string) string {
	if len(hmacKeysMap) > 0 {
		if keyID == "" {
			keyID = hmacDefaultKeyID
		}
		if s, ok := hmacKeysMap[keyID]; ok {
			return s
		}
		return ""
	}
	return HMACSecret
}

// HasHMACKeys returns true if multiple HMAC keys are configured.
func HasHMACKeys() bool {
	return len(hmacKeysMap) > 0
}

// AllowNoAuth returns true when no API key or HMAC is set (dev only).
func AllowNoAuth() bool {
	return APIKey == "" && HMACSecret == "" && !HasHMACKeys()
}
