// Package auth implements the OTP-gated authentication workflow: challenge
// issuance and verification, the two-phase login, and session-token
// issuance on success.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/evcharge/account_service/internal/identity"
	"github.com/evcharge/account_service/internal/notification"
	"github.com/evcharge/account_service/internal/otp"
	"github.com/evcharge/account_service/internal/token"
)

const (
	registrationSubject = "Registration OTP"
	loginSubject        = "Login OTP"
)

// Service orchestrates the challenge store, mailer, user accounts and
// token issuer.
type Service struct {
	ids    *identity.Service
	store  otp.Store
	mailer notification.Mailer
	tokens *token.Issuer
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time
}

// NewService wires the authentication workflow. Challenges older than ttl
// are rejected as expired; a non-positive ttl falls back to the default.
func NewService(ids *identity.Service, store otp.Store, mailer notification.Mailer, tokens *token.Issuer, logger *slog.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = otp.TTL
	}
	return &Service{ids: ids, store: store, mailer: mailer, tokens: tokens, logger: logger, ttl: ttl, now: time.Now}
}

// SendRegistrationOTP mails a fresh code to an email that is not yet
// registered. The challenge is stored only after delivery succeeds, so a
// failed send leaves nothing pending.
func (s *Service) SendRegistrationOTP(ctx context.Context, email string) error {
	taken, err := s.ids.Exists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return err
	}

	body := "Your OTP for registration is: " + code
	if err := s.mailer.Send(ctx, email, registrationSubject, body); err != nil {
		s.logger.Error("otp delivery failed", "email", email, "error", err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return s.store.Put(ctx, email, code)
}

// VerifyOTP runs the verification protocol for a pending challenge:
// missing challenge, mismatched code (challenge retained), expired
// challenge (challenge removed), or success (challenge consumed).
func (s *Service) VerifyOTP(ctx context.Context, email, submitted string) error {
	ch, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return ErrOTPNotFound
		}
		return err
	}

	if submitted != ch.Code {
		return ErrOTPMismatch
	}

	if s.now().Sub(ch.IssuedAt) > s.ttl {
		_ = s.store.Remove(ctx, email)
		return ErrOTPExpired
	}

	// One-time use. A challenge already gone counts as consumed.
	if _, err := s.store.Consume(ctx, email); err != nil && !errors.Is(err, otp.ErrNotFound) {
		return err
	}
	return nil
}

// Result is the outcome of a Login call. When RequireOTP is set no token
// was issued and the caller must repeat the call with the mailed code.
type Result struct {
	RequireOTP bool
	Token      string
	Role       string
	User       identity.User
}

// Login is the single two-phase entrypoint. Credentials are re-verified on
// every call since nothing is kept between phases. Without a code it mails
// a login challenge; with a code it verifies the challenge and issues a
// session token.
func (s *Service) Login(ctx context.Context, email, password, submitted string) (Result, error) {
	user, err := s.ids.Authenticate(ctx, email, password)
	if err != nil {
		return Result{}, err
	}

	if submitted == "" {
		code, err := otp.GenerateCode()
		if err != nil {
			return Result{}, err
		}
		// Stored before delivery: a failed send leaves the challenge
		// pending until it expires.
		if err := s.store.Put(ctx, email, code); err != nil {
			return Result{}, err
		}
		if err := s.mailer.Send(ctx, email, loginSubject, "Your OTP for login is: "+code); err != nil {
			s.logger.Error("otp delivery failed", "email", email, "error", err)
			return Result{}, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
		return Result{RequireOTP: true}, nil
	}

	// On this path a missing challenge and a wrong code are reported
	// identically, unlike the standalone verify endpoint.
	ch, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return Result{}, ErrOTPMismatch
		}
		return Result{}, err
	}
	if submitted != ch.Code {
		return Result{}, ErrOTPMismatch
	}
	if s.now().Sub(ch.IssuedAt) > s.ttl {
		_ = s.store.Remove(ctx, email)
		return Result{}, ErrOTPExpired
	}
	if _, err := s.store.Consume(ctx, email); err != nil && !errors.Is(err, otp.ErrNotFound) {
		return Result{}, err
	}

	signed, err := s.tokens.Issue(user.ID, token.RoleUser)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("login completed", "user_id", user.ID)
	return Result{Token: signed, Role: token.RoleUser, User: user}, nil
}
