package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	signed, err := issuer.Issue("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ID != "user-1" {
		t.Fatalf("expected id user-1, got %s", claims.ID)
	}
	if claims.Role != RoleUser {
		t.Fatalf("expected role %q, got %q", RoleUser, claims.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret-a", time.Hour).Issue("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewIssuer("secret-b", time.Hour).Verify(signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalid) {
			t.Fatalf("token %q: expected ErrInvalid, got %v", tok, err)
		}
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	signed, err := issuer.Issue("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := issuer.Verify(signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for expired token, got %v", err)
	}
}
