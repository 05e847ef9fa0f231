// Package otp holds pending one-time-password challenges keyed by email.
// A challenge lives for at most TTL; creating a new one for the same email
// overwrites the previous one.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"
)

// TTL is the default window during which a challenge can be verified.
// Stores and the workflow fall back to it when no TTL is configured.
const TTL = 5 * time.Minute

// ErrNotFound indicates no pending challenge exists for the email.
var ErrNotFound = errors.New("challenge not found")

// Challenge is a pending code awaiting verification for one email address.
type Challenge struct {
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store keeps at most one pending challenge per email with self-expiry.
// Get does not evict expired entries; callers own the expiry decision so
// that an expired challenge stays distinguishable from a missing one.
type Store interface {
	Put(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (Challenge, error)
	Consume(ctx context.Context, email string) (Challenge, error)
	Remove(ctx context.Context, email string) error
}

const codeMin = 100000

// GenerateCode returns a 6-digit code drawn uniformly from
// [100000, 999999] using crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
