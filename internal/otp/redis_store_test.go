package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	return newRedisTestStoreTTL(t, 0)
}

func newRedisTestStoreTTL(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s, _ := newRedisTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a@x.com", "123456"); err != nil {
		t.Fatalf("put: %v", err)
	}

	ch, err := s.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ch.Code != "123456" {
		t.Fatalf("expected code 123456, got %s", ch.Code)
	}
	if ch.IssuedAt.IsZero() {
		t.Fatalf("expected issue timestamp to be set")
	}
}

func TestRedisStoreConsumeRemoves(t *testing.T) {
	s, _ := newRedisTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a@x.com", "123456"); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, err := s.Consume(ctx, "a@x.com"); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if _, err := s.Get(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after consume, got %v", err)
	}
}

func TestRedisStoreKeyExpires(t *testing.T) {
	s, mr := newRedisTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a@x.com", "123456"); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Within the grace window the key is still readable.
	mr.FastForward(TTL + expiryGrace/2)
	if _, err := s.Get(ctx, "a@x.com"); err != nil {
		t.Fatalf("expected challenge within grace window: %v", err)
	}

	mr.FastForward(expiryGrace)
	if _, err := s.Get(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after key TTL, got %v", err)
	}
}

func TestRedisStoreHonorsConfiguredTTL(t *testing.T) {
	s, mr := newRedisTestStoreTTL(t, 10*time.Minute)
	ctx := context.Background()

	if err := s.Put(ctx, "a@x.com", "123456"); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Past the default TTL but within the configured one.
	mr.FastForward(TTL + time.Minute)
	if _, err := s.Get(ctx, "a@x.com"); err != nil {
		t.Fatalf("expected challenge within configured ttl: %v", err)
	}

	mr.FastForward(10 * time.Minute)
	if _, err := s.Get(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after configured ttl, got %v", err)
	}
}

func TestRedisStoreRemove(t *testing.T) {
	s, _ := newRedisTestStore(t)
	ctx := context.Background()

	if err := s.Remove(ctx, "missing@x.com"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}

	if err := s.Put(ctx, "a@x.com", "123456"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Remove(ctx, "a@x.com"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}
