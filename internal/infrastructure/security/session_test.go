package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSessionSigner_IssueVerify(t *testing.T) {
	signer := NewSessionSigner(SessionConfig{Secret: "secret", TTL: time.Hour})

	token, err := signer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	userID, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestSessionSigner_Expired(t *testing.T) {
	signer := NewSessionSigner(SessionConfig{Secret: "secret", TTL: time.Minute})

	token, err := signer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := signer.Verify(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionSigner_Tampered(t *testing.T) {
	signer := NewSessionSigner(SessionConfig{Secret: "secret", TTL: time.Hour})

	token, err := signer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Flip the first character of the signature segment.
	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := signer.Verify(tampered); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestSessionSigner_WrongSecret(t *testing.T) {
	issuer := NewSessionSigner(SessionConfig{Secret: "secret-a", TTL: time.Hour})
	verifier := NewSessionSigner(SessionConfig{Secret: "secret-b", TTL: time.Hour})

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestSessionSigner_Malformed(t *testing.T) {
	signer := NewSessionSigner(SessionConfig{Secret: "secret", TTL: time.Hour})

	if _, err := signer.Verify("not-a-jwt"); !errors.Is(err, ErrSessionMalformed) {
		t.Fatalf("expected ErrSessionMalformed, got %v", err)
	}
}
