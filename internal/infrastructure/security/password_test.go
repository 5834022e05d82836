package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordCodec_RoundTrip(t *testing.T) {
	codec := NewPasswordCodec(bcrypt.MinCost)

	digest, err := codec.Hash("password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if digest == "password123" {
		t.Fatalf("digest must not equal plaintext")
	}

	if !codec.Verify("password123", digest) {
		t.Fatalf("verify(p, hash(p)) must be true")
	}
	if codec.Verify("password124", digest) {
		t.Fatalf("verify must fail for a different password")
	}
}

func TestPasswordCodec_HashesAreSalted(t *testing.T) {
	codec := NewPasswordCodec(bcrypt.MinCost)

	a, _ := codec.Hash("samepass")
	b, _ := codec.Hash("samepass")
	if a == b {
		t.Fatalf("two hashes of the same password must differ (salt)")
	}
}

func TestPasswordCodec_EmptyPassword(t *testing.T) {
	codec := NewPasswordCodec(bcrypt.MinCost)

	if _, err := codec.Hash(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestPasswordCodec_VerifyMalformedDigest(t *testing.T) {
	codec := NewPasswordCodec(bcrypt.MinCost)

	if codec.Verify("whatever", "not-a-bcrypt-digest") {
		t.Fatalf("verify must return false for garbage digests")
	}
}
