package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestCodec(secret string, ttl time.Duration) *TokenCodec {
	return NewTokenCodec(secret, ttl, "oornnery-site", "oornnery-web")
}

func TestMintVerify(t *testing.T) {
	codec := newTestCodec("secret", time.Hour)
	token, err := codec.Mint("account-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "account-1" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti claim")
	}
}

func TestMintEmptySubject(t *testing.T) {
	codec := newTestCodec("secret", time.Hour)
	if _, err := codec.Mint(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	codec := newTestCodec("secret", -time.Minute)
	token, err := codec.Mint("account-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for expired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := newTestCodec("secret-a", time.Hour).Mint("account-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := newTestCodec("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for wrong secret, got %v", err)
	}
}

func TestVerifyWrongIssuerAudience(t *testing.T) {
	token, err := NewTokenCodec("secret", time.Hour, "other-issuer", "oornnery-web").Mint("account-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := newTestCodec("secret", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for wrong issuer, got %v", err)
	}

	token, err = NewTokenCodec("secret", time.Hour, "oornnery-site", "other-audience").Mint("account-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := newTestCodec("secret", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for wrong audience, got %v", err)
	}
}

func TestVerifyMissing(t *testing.T) {
	codec := newTestCodec("secret", time.Hour)
	if _, err := codec.Verify("  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestTokenFromCookie(t *testing.T) {
	if _, err := TokenFromCookie("nope"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if _, err := TokenFromCookie("Basic abc"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error for wrong scheme, got %v", err)
	}
	if token, err := TokenFromCookie("Bearer abc"); err != nil || token != "abc" {
		t.Fatalf("expected token abc, got %q err %v", token, err)
	}
	if token, err := TokenFromCookie("bearer abc"); err != nil || token != "abc" {
		t.Fatalf("scheme should be case-insensitive, got %q err %v", token, err)
	}
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the password")
	}
	if !VerifyPassword("hunter22", hash) {
		t.Fatal("correct password should verify")
	}
	if VerifyPassword("hunter23", hash) {
		t.Fatal("wrong password should not verify")
	}
}

func TestVerifyPasswordEmptyHash(t *testing.T) {
	if VerifyPassword("anything", "") {
		t.Fatal("empty stored hash must never verify")
	}
}
