package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mesacard/internal/api"
	"mesacard/internal/session"
)

type AuthHTTPHandler struct {
	auth     *api.AuthService
	sessions *session.Store
}

func NewAuthHTTPHandler(auth *api.AuthService, sessions *session.Store) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		auth:     auth,
		sessions: sessions,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

func (h *AuthHTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if api.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, errorResponse("Invalid credentials"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Authentication service error"))
		return
	}

	h.sessions.Set(result.Token, result.User)

	c.JSON(http.StatusOK, successResponse("Logged in", map[string]interface{}{
		"user": result.User,
	}))
}

func (h *AuthHTTPHandler) Logout(c *gin.Context) {
	h.sessions.Clear()
	c.JSON(http.StatusOK, successResponse("Logged out", nil))
}

func (h *AuthHTTPHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := h.auth.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not register user"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("User registered", user))
}

func (h *AuthHTTPHandler) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	users, err := h.auth.Users(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load users"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Users retrieved", users))
}
