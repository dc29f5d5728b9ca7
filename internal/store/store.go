package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	challengePrefix = "pow:challenge:"
	tokenPrefix     = "pow:token:"
	rateIPPrefix    = "pow:rate:ip:"
)

// Challenge is the persisted proof-of-work challenge. Records are
// immutable once written; they disappear via TTL or a single consume.
type Challenge struct {
	ID         string
	Prefix     string
	Difficulty int
	Timestamp  int64
}

// Store handles Redis persistence for challenges, token markers, and rate counters.
type Store struct {
	rdb          *redis.Client
	challengeTTL time.Duration
	tokenTTL     time.Duration
	rateIPTTL    time.Duration
}

// NewStore creates a Store with the given Redis client and TTLs.
func NewStore(rdb *redis.Client, challengeTTL, tokenTTL, rateIPTTL time.Duration) *Store {
	return &Store{
		rdb:          rdb,
		challengeTTL: challengeTTL,
		tokenTTL:     tokenTTL,
		rateIPTTL:    rateIPTTL,
	}
}

// SaveChallenge writes the challenge as a hash and sets its expiry in one pipeline.
func (s *Store) SaveChallenge(ctx context.Context, ch *Challenge) error {
	key := challengePrefix + ch.ID
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":         ch.ID,
		"prefix":     ch.Prefix,
		"difficulty": ch.Difficulty,
		"timestamp":  ch.Timestamp,
	})
	pipe.Expire(ctx, key, s.challengeTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetChallenge returns the challenge by id, or nil if not found or expired.
// The two cases are indistinguishable on purpose.
func (s *Store) GetChallenge(ctx context.Context, id string) (*Challenge, error) {
	fields, err := s.rdb.HGetAll(ctx, challengePrefix+id).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	difficulty, err := strconv.Atoi(fields["difficulty"])
	if err != nil {
		return nil, fmt.Errorf("challenge %s: bad difficulty field: %w", id, err)
	}
	timestamp, err := strconv.ParseInt(fields["timestamp"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("challenge %s: bad timestamp field: %w", id, err)
	}
	return &Challenge{
		ID:         fields["id"],
		Prefix:     fields["prefix"],
		Difficulty: difficulty,
		Timestamp:  timestamp,
	}, nil
}

// ConsumeChallenge deletes the challenge record. The returned bool is false
// when the record was already gone, so of several racing verifiers only the
// one whose delete removed the key may treat the solution as accepted.
func (s *Store) ConsumeChallenge(ctx context.Context, id string) (bool, error) {
	n, err := s.rdb.Del(ctx, challengePrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveToken records an issued token marker; presence of the marker is what
// makes the token valid.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.rdb.Set(ctx, tokenPrefix+token, "1", s.tokenTTL).Err()
}

// TokenExists returns true while the token marker is present.
func (s *Store) TokenExists(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, tokenPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteToken removes the token marker ahead of its TTL (revocation).
func (s *Store) DeleteToken(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, tokenPrefix+token).Err()
}

// IncrRateIP increments the per-IP issuance counter; returns new count.
func (s *Store) IncrRateIP(ctx context.Context, ip string) (int64, error) {
	key := rateIPPrefix + ip
	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.rateIPTTL)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
