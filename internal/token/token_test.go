package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkowalcze/shoutbox/internal/token"
)

const testSecret = "test-secret-key-for-token-codec-tests"

func TestCodec_IssueAndVerify(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute)

	signed, err := codec.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if signed == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if claims.ExpiresAt.Before(time.Now()) {
		t.Fatal("expected expiry in the future")
	}
}

func TestCodec_Verify_Malformed(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute)

	_, err := codec.Verify("not-a-jwt-at-all")
	if !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestCodec_Verify_TamperedSignature(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute)

	signed, err := codec.Issue("bob")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := signed[:len(signed)-4] + "XXXX"
	_, err = codec.Verify(tampered)
	if !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for tampered token, got %v", err)
	}
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute)
	other := token.NewCodec("a-completely-different-secret", 30*time.Minute)

	signed, err := codec.Issue("carol")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = other.Verify(signed)
	if !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for wrong secret, got %v", err)
	}
}

func TestCodec_Verify_ExpiredReturnsClaims(t *testing.T) {
	// Negative TTL issues tokens that are already expired.
	codec := token.NewCodec(testSecret, -time.Minute)

	signed, err := codec.Issue("dave")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := codec.Verify(signed)
	if !errors.Is(err, token.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if claims == nil {
		t.Fatal("expected claims alongside ErrExpired")
	}
	if claims.Subject != "dave" {
		t.Fatalf("expected subject dave, got %q", claims.Subject)
	}
}

func TestCodec_Verify_ExpiredWithoutSubject(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute)

	// Hand-craft an expired token that carries no sub claim.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := raw.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = codec.Verify(signed)
	if !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for expired token without subject, got %v", err)
	}
}

func TestCodec_Verify_MissingSubject(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = codec.Verify(signed)
	if !errors.Is(err, token.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for token without subject, got %v", err)
	}
}
