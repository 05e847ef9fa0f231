package identity

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service manages account lifecycle: registration, credential checks and
// profile mutations. OTP sequencing lives in the auth package.
type Service struct {
	repo   Repository
	hasher Hasher
}

// NewService creates an identity service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, hasher: NewBcryptHasher()}
}

// NewServiceWithHasher allows substituting the credential hasher.
func NewServiceWithHasher(repo Repository, hasher Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Register validates the email, rejects duplicates and stores the user with
// a hashed password. It does not check that an OTP was verified beforehand;
// send/verify are separate steps the caller sequences.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if !emailPattern.MatchString(in.Email) {
		return User{}, ErrInvalidEmail
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return User{}, ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies the password for the account registered under email.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Exists reports whether an account is registered under email.
func (s *Service) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Profile returns the account for the given id.
func (s *Service) Profile(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile replaces name and email with the provided values. Empty
// fields leave the stored value unchanged rather than blanking it.
func (s *Service) UpdateProfile(ctx context.Context, id, name, email string) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if name == "" {
		name = user.Name
	}
	if email == "" {
		email = user.Email
	}

	if err := s.repo.UpdateProfile(ctx, id, name, email); err != nil {
		return User{}, err
	}

	user.Name = name
	user.Email = email
	return user, nil
}

// ResetPassword hashes and stores a new password for the account registered
// under email. No ownership proof is required on this path.
func (s *Service) ResetPassword(ctx context.Context, email, password string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, user.ID, hash)
}
