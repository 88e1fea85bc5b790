package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	token, err := GenerateJWT(123)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 123 {
		t.Fatalf("got user id %d, want 123", userID)
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatal("expected error for garbage token")
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	claims := jwt.MapClaims{
		"user_id": int64(1),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseJWT(forged); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	claims := jwt.MapClaims{
		"user_id": int64(1),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseJWT(expired); err == nil {
		t.Fatal("expected error for expired token")
	}
}
