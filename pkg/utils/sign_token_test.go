package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	tokenString, err := SignToken(42, "dhruv", "user", secret, 24)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("expected a valid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if uid, ok := claims["uid"].(float64); !ok || int(uid) != 42 {
		t.Errorf("uid claim = %v, want 42", claims["uid"])
	}
	if claims["user"] != "dhruv" {
		t.Errorf("user claim = %v, want dhruv", claims["user"])
	}
	if claims["role"] != "user" {
		t.Errorf("role claim = %v, want user", claims["role"])
	}
	if _, ok := claims["exp"].(float64); !ok {
		t.Error("missing exp claim")
	}
}

func TestSignTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := SignToken(1, "alice", "user", "right-secret", 1)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Fatal("expected verification to fail with the wrong secret")
	}
}

func TestSignTokenEmptySecret(t *testing.T) {
	if _, err := SignToken(1, "alice", "user", "", 24); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
}

func TestSendEmailUnconfigured(t *testing.T) {
	prev := smtpSettings
	smtpSettings = SMTPSettings{}
	defer func() { smtpSettings = prev }()

	if err := SendEmail("user@example.com", "hello", "<p>hi</p>"); err == nil {
		t.Fatal("expected an error when SMTP is not configured")
	}
}
