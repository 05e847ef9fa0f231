package otp

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(0)
	t.Cleanup(s.Close)
	return s
}

func TestMemoryStorePutGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

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

func TestMemoryStorePutOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a@x.com", "111111"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "a@x.com", "222222"); err != nil {
		t.Fatalf("put: %v", err)
	}

	ch, err := s.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ch.Code != "222222" {
		t.Fatalf("expected newest code to win, got %s", ch.Code)
	}
}

func TestMemoryStoreConsumeIsOneShot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a@x.com", "123456"); err != nil {
		t.Fatalf("put: %v", err)
	}

	ch, err := s.Consume(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ch.Code != "123456" {
		t.Fatalf("expected code 123456, got %s", ch.Code)
	}

	if _, err := s.Consume(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second consume, got %v", err)
	}
}

func TestMemoryStoreRemoveAbsentIsNoop(t *testing.T) {
	s := newTestStore(t)

	if err := s.Remove(context.Background(), "missing@x.com"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestMemoryStoreSweepEvictsExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	Seed(s, "old@x.com", "111111", time.Now().Add(-TTL-time.Second))
	if err := s.Put(ctx, "fresh@x.com", "222222"); err != nil {
		t.Fatalf("put: %v", err)
	}

	s.evictExpired()

	if _, err := s.Get(ctx, "old@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired challenge to be evicted, got %v", err)
	}
	if _, err := s.Get(ctx, "fresh@x.com"); err != nil {
		t.Fatalf("expected fresh challenge to survive sweep: %v", err)
	}
}

func TestMemoryStoreSweepHonorsConfiguredTTL(t *testing.T) {
	s := NewMemoryStore(10 * time.Minute)
	t.Cleanup(s.Close)
	ctx := context.Background()

	// Older than the default TTL but within the configured one.
	Seed(s, "slow@x.com", "111111", time.Now().Add(-6*time.Minute))
	Seed(s, "stale@x.com", "222222", time.Now().Add(-11*time.Minute))

	s.evictExpired()

	if _, err := s.Get(ctx, "slow@x.com"); err != nil {
		t.Fatalf("expected challenge within configured ttl to survive: %v", err)
	}
	if _, err := s.Get(ctx, "stale@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected challenge past configured ttl evicted, got %v", err)
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		if code[0] == '0' {
			t.Fatalf("expected code in [100000, 999999], got %q", code)
		}
	}
}
