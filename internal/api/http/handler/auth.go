package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
	"github.com/mento-app/mento-server/internal/service"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, email, password string) (model.User, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type registerResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	service   AuthService
	responder *Responder
	logger    *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(service AuthService, responder *Responder, logger *logger.Logger) *Auth {
	return &Auth{
		service:   service,
		responder: responder,
		logger:    logger,
	}
}

// Register creates an account: POST /api/users/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.logger.Info("Auth handler: registration completed",
		"user_id", user.ID)

	h.responder.JSON(w, http.StatusCreated, registerResponse{
		Success: true,
		User:    toUserResponse(user),
	})
}

// Login checks credentials and returns an access token: POST /api/users/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, loginResponse{
		Success: true,
		User:    toUserResponse(session.User),
		Token:   session.AccessToken,
	})
}

// User ids are sent as strings; clients coerce them back.
func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:          strconv.FormatInt(u.ID, 10),
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
