package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	userID := uuid.New()

	token, err := issuer.Sign(userID, RoleDoctor)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	identity, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if identity.UserID != userID {
		t.Errorf("expected user id %s, got %s", userID, identity.UserID)
	}
	if identity.Role != RoleDoctor {
		t.Errorf("expected role doctor, got %s", identity.Role)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", time.Hour).Sign(uuid.New(), RolePatient)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := NewIssuer("secret-b", time.Hour).Verify(token); err == nil {
		t.Error("expected verification to fail with a different secret")
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	// Negative ttl falls back to the default, so build an expired issuer
	// directly.
	issuer.ttl = -time.Minute

	token, err := issuer.Sign(uuid.New(), RolePatient)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected verification of an expired token to fail")
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	for _, tok := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := issuer.Verify(tok); err == nil {
			t.Errorf("expected error for token %q", tok)
		}
	}
}

func TestDefaultTTL(t *testing.T) {
	issuer := NewIssuer("test-secret", 0)
	if issuer.ttl != 24*time.Hour {
		t.Errorf("expected 24h default ttl, got %v", issuer.ttl)
	}
}
