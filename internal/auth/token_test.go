package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123456789abcdef")
	sessionID := uuid.New()

	token, err := m.Generate(sessionID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != sessionID {
		t.Errorf("expected %s, got %s", sessionID, parsed)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	m1 := NewTokenManager("0123456789abcdef0123456789abcdef")
	m2 := NewTokenManager("another-secret-another-secret-xx")

	token, err := m1.Generate(uuid.New(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m2.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123456789abcdef")

	token, err := m.Generate(uuid.New(), time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123456789abcdef")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "password123") {
		t.Error("correct password must verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("wrong password must not verify")
	}
}
