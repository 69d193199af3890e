package utils

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestGenerateToken(t *testing.T) {
	ConfigureJWT("test-secret", 24)

	token, err := GenerateToken(42, "testuser", "test@123456.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Error("Generated token is empty")
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Expected UserID 42, got %d", claims.UserID)
	}
	if claims.UserName != "testuser" {
		t.Errorf("Expected UserName testuser, got %s", claims.UserName)
	}
	if claims.Email != "test@123456.com" {
		t.Errorf("Expected Email test@123456.com, got %s", claims.Email)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	ConfigureJWT("test-secret", 24)

	if _, err := ParseToken("not-a-token"); err == nil {
		t.Error("Expected error for malformed token")
	}

	// A token signed with a different secret must be rejected
	claims := &Claims{
		UserID:   1,
		UserName: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("signing forged token failed: %v", err)
	}
	if _, err := ParseToken(forged); err == nil {
		t.Error("Expected error for token signed with wrong secret")
	}
}

func TestParseToken_ExpiredToken(t *testing.T) {
	ConfigureJWT("test-secret", 24)

	claims := &Claims{
		UserID:   1,
		UserName: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing expired token failed: %v", err)
	}

	if _, err := ParseToken(expired); err == nil {
		t.Error("Expected error for expired token")
	}
}
