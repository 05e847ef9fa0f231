package otp

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = time.Minute

// MemoryStore is a mutex-guarded in-process challenge store. A background
// sweep evicts entries older than the store TTL so abandoned challenges do
// not accumulate; process restart loses all pending challenges.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge
	ttl        time.Duration
	now        func() time.Time
	done       chan struct{}
	closeOnce  sync.Once
}

// NewMemoryStore builds the store and starts its expiry sweep. A
// non-positive ttl falls back to the default TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = TTL
	}
	s := &MemoryStore{
		challenges: make(map[string]Challenge),
		ttl:        ttl,
		now:        time.Now,
		done:       make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Put inserts or replaces the challenge for email, stamped with the current time.
func (s *MemoryStore) Put(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[email] = Challenge{Code: code, IssuedAt: s.now()}
	return nil
}

// Get returns the pending challenge for email.
func (s *MemoryStore) Get(_ context.Context, email string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[email]
	if !ok {
		return Challenge{}, ErrNotFound
	}
	return ch, nil
}

// Consume atomically reads and removes the challenge for email.
func (s *MemoryStore) Consume(_ context.Context, email string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[email]
	if !ok {
		return Challenge{}, ErrNotFound
	}
	delete(s.challenges, email)
	return ch, nil
}

// Remove evicts the challenge for email. Removing an absent key is a no-op.
func (s *MemoryStore) Remove(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, email)
	return nil
}

// Close stops the background sweep.
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	for email, ch := range s.challenges {
		if ch.IssuedAt.Before(cutoff) {
			delete(s.challenges, email)
		}
	}
}
