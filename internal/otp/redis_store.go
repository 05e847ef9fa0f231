package otp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// Redis keys outlive the protocol TTL by this much so the workflow can
// still observe an expired challenge instead of a missing one.
const expiryGrace = time.Minute

// RedisStore keeps challenges in Redis with a server-side key TTL,
// surviving restarts of the API process.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed challenge store. A non-positive ttl
// falls back to the default TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = TTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Put inserts or replaces the challenge for email, stamped with the current time.
func (s *RedisStore) Put(ctx context.Context, email, code string) error {
	payload, err := json.Marshal(Challenge{Code: code, IssuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+email, payload, s.ttl+expiryGrace).Err()
}

// Get returns the pending challenge for email.
func (s *RedisStore) Get(ctx context.Context, email string) (Challenge, error) {
	data, err := s.client.Get(ctx, keyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Challenge{}, ErrNotFound
		}
		return Challenge{}, err
	}
	return decode(data)
}

// Consume atomically reads and removes the challenge for email.
func (s *RedisStore) Consume(ctx context.Context, email string) (Challenge, error) {
	data, err := s.client.GetDel(ctx, keyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Challenge{}, ErrNotFound
		}
		return Challenge{}, err
	}
	return decode(data)
}

// Remove evicts the challenge for email. Removing an absent key is a no-op.
func (s *RedisStore) Remove(ctx context.Context, email string) error {
	return s.client.Del(ctx, keyPrefix+email).Err()
}

func decode(data []byte) (Challenge, error) {
	var ch Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return Challenge{}, err
	}
	return ch, nil
}
