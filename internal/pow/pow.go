package pow

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soulteary/herald-pow/internal/store"
	"github.com/soulteary/herald-pow/internal/token"
)

var (
	// ErrChallengeNotFound covers both unknown ids and ids whose record
	// already expired or was consumed; callers cannot tell these apart.
	ErrChallengeNotFound = errors.New("challenge not found or expired")
	// ErrChallengeExpired is the timestamp-based expiry check, a guard on
	// top of the store TTL against clock or TTL skew.
	ErrChallengeExpired = errors.New("challenge expired")
	// ErrInvalidSolution means the hash did not match or did not meet the
	// difficulty target. The challenge stays intact for another attempt.
	ErrInvalidSolution = errors.New("invalid solution")
	// ErrNoSecretKey means the signing key is not configured; verification
	// fails closed rather than minting unsigned tokens.
	ErrNoSecretKey = errors.New("token signing key not configured")
)

const prefixBytes = 16

// Manager owns the challenge lifecycle: issuance, solution verification
// with token minting, and token checks. All durable state lives in the
// store; Manager itself is stateless and safe for concurrent use.
type Manager struct {
	st            *store.Store
	secretKey     string
	maxDifficulty int
	challengeTTL  time.Duration
}

// NewManager creates a Manager with explicit dependencies.
func NewManager(st *store.Store, secretKey string, maxDifficulty int, challengeTTL time.Duration) *Manager {
	return &Manager{
		st:            st,
		secretKey:     secretKey,
		maxDifficulty: maxDifficulty,
		challengeTTL:  challengeTTL,
	}
}

// ClampDifficulty bounds a requested difficulty into [1, max].
func ClampDifficulty(d, max int) int {
	if d < 1 {
		return 1
	}
	if d > max {
		return max
	}
	return d
}

// NewPrefix returns a hex-encoded random challenge prefix (16 bytes of entropy).
func NewPrefix() (string, error) {
	b := make([]byte, prefixBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashSolution computes the solution digest: the lowercase-hex SHA-256 of
// the prefix directly concatenated with the nonce's decimal form, no
// delimiter. This must match what the browser-side solver computes.
func HashSolution(prefix string, nonce int64) string {
	sum := sha256.Sum256([]byte(prefix + strconv.FormatInt(nonce, 10)))
	return hex.EncodeToString(sum[:])
}

// Create issues a new challenge and persists it with the challenge TTL.
// The requested difficulty is clamped, never rejected.
func (m *Manager) Create(ctx context.Context, requestedDifficulty int) (*store.Challenge, error) {
	prefix, err := NewPrefix()
	if err != nil {
		return nil, err
	}
	ch := &store.Challenge{
		ID:         uuid.NewString(),
		Prefix:     prefix,
		Difficulty: ClampDifficulty(requestedDifficulty, m.maxDifficulty),
		Timestamp:  time.Now().Unix(),
	}
	if err := m.st.SaveChallenge(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// Verify checks a proposed solution and, on success, consumes the challenge
// and returns a freshly minted token. Any failure leaves the challenge
// intact so the client may retry with another nonce until it expires.
func (m *Manager) Verify(ctx context.Context, challengeID string, nonce int64, claimedHash string) (string, error) {
	if m.secretKey == "" {
		return "", ErrNoSecretKey
	}

	ch, err := m.st.GetChallenge(ctx, challengeID)
	if err != nil {
		return "", err
	}
	if ch == nil {
		return "", ErrChallengeNotFound
	}

	now := time.Now().Unix()
	if now-ch.Timestamp > int64(m.challengeTTL/time.Second) {
		return "", ErrChallengeExpired
	}

	computed := HashSolution(ch.Prefix, nonce)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(claimedHash)) != 1 {
		return "", ErrInvalidSolution
	}
	if !strings.HasPrefix(computed, strings.Repeat("0", ch.Difficulty)) {
		return "", ErrInvalidSolution
	}

	// Conditional consume: only the verifier whose delete removed the key
	// wins, so concurrent duplicates of the same challenge cannot both
	// receive a token.
	consumed, err := m.st.ConsumeChallenge(ctx, challengeID)
	if err != nil {
		return "", err
	}
	if !consumed {
		return "", ErrChallengeNotFound
	}

	tok := token.Mint(m.secretKey, challengeID, now)
	if err := m.st.SaveToken(ctx, tok); err != nil {
		return "", err
	}
	return tok, nil
}

// CheckToken reports whether the token's store marker is still present.
// The signature is deliberately not re-verified here: membership is the
// sole authority, which keeps early revocation (marker deletion) working.
func (m *Manager) CheckToken(ctx context.Context, tok string) (bool, error) {
	return m.st.TokenExists(ctx, tok)
}

// RevokeToken invalidates a token ahead of its TTL by removing its marker.
func (m *Manager) RevokeToken(ctx context.Context, tok string) error {
	return m.st.DeleteToken(ctx, tok)
}
