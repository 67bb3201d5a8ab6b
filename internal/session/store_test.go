package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "staff@example.com",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSetClear(t *testing.T) {
	s := NewStore()
	if s.Authenticated() {
		t.Fatal("fresh store must not be authenticated")
	}

	s.Set("tok", User{ID: 1, Name: "Ana", Role: "admin"})
	if !s.Authenticated() || s.Token() != "tok" {
		t.Fatal("store did not hold the session")
	}
	if s.User().Name != "Ana" {
		t.Fatalf("User().Name = %q", s.User().Name)
	}

	s.Clear()
	if s.Authenticated() || s.User() != (User{}) {
		t.Fatal("Clear must drop token and user")
	}
}

func TestValid(t *testing.T) {
	s := NewStore()
	if s.Valid() {
		t.Fatal("empty store is not valid")
	}

	s.Set(signedToken(t, time.Now().Add(time.Hour)), User{ID: 1})
	if !s.Valid() {
		t.Fatal("unexpired token must be valid")
	}

	s.Set(signedToken(t, time.Now().Add(-time.Minute)), User{ID: 1})
	if s.Valid() {
		t.Fatal("expired token must be rejected")
	}

	// Opaque (non-JWT) tokens are rejected rather than trusted blindly.
	s.Set("not-a-jwt", User{ID: 1})
	if s.Valid() {
		t.Fatal("malformed token must be rejected")
	}
}
