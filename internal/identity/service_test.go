package identity

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@x.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated user id")
	}
	if string(user.PasswordHash) == "hunter2" {
		t.Fatalf("password stored in plaintext")
	}

	authed, err := svc.Authenticate(ctx, "ada@x.com", "hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	for _, email := range []string{"", "plain", "no@tld", "two@@x.com", "sp ace@x.com"} {
		if _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: email, Password: "pw"}); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("email %q: expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@x.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Name: "Eve", Email: "ada@x.com", Password: "pw2"}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "nobody@x.com", "pw"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@x.com", Password: "hunter2"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ada@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateProfileKeepsEmptyFields(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, user.ID, "Ada L.", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ada L." {
		t.Fatalf("expected name replaced, got %s", updated.Name)
	}
	if updated.Email != "ada@x.com" {
		t.Fatalf("expected email unchanged, got %s", updated.Email)
	}

	stored, err := svc.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if stored.Name != "Ada L." || stored.Email != "ada@x.com" {
		t.Fatalf("persisted profile mismatch: %+v", stored)
	}
}

func TestResetPasswordSwapsCredential(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@x.com", Password: "old-pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ResetPassword(ctx, "ada@x.com", "new-pw"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "ada@x.com", "old-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ada@x.com", "new-pw"); err != nil {
		t.Fatalf("expected new password accepted: %v", err)
	}

	if err := svc.ResetPassword(ctx, "nobody@x.com", "pw"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
