package api

import (
	"context"

	"mesacard/internal/session"
)

type AuthService struct {
	client *Client
}

type LoginResult struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	err := s.client.do(ctx, "POST", "/api/auth/login", nil, body, &result, false)
	return result, err
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (session.User, error) {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	}
	var user session.User
	err := s.client.post(ctx, "/api/auth/register", body, &user)
	return user, err
}

func (s *AuthService) Users(ctx context.Context) ([]session.User, error) {
	var users []session.User
	if err := s.client.get(ctx, "/api/auth/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
