// Package session holds the authenticated staff session for the whole
// process. The backend issues the bearer token at login; this store only
// carries it between the login handler and the outgoing API calls.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Store struct {
	mu    sync.RWMutex
	token string
	user  User
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Set(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = User{}
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Valid reports whether a token is held and, when the token carries an exp
// claim, whether it is still in the future. The token is signed by the
// backend with a key this client never sees, so the claims are read without
// signature verification; the backend remains the authority on every call.
func (s *Store) Valid() bool {
	token := s.Token()
	if token == "" {
		return false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.After(time.Now())
}
