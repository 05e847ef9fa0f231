package otp

import "time"

// Seed places a challenge with an explicit issue time directly into a
// memory store. Test helper for exercising expiry paths.
func Seed(s *MemoryStore, email, code string, issuedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[email] = Challenge{Code: code, IssuedAt: issuedAt}
}
