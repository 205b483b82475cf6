package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
)

// registration caps passwords at bcrypt's 72-byte input limit.
type registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful login.
type Session struct {
	User        model.User
	AccessToken string
}

type Auth struct {
	userStore    model.UserStore
	tokenManager model.TokenManager
	logger       *logger.Logger
	tracer       trace.Tracer

	hashCost int
	now      func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenManager: tokenManager,
		logger:       logger,
		tracer:       newTracer(),
		hashCost:     bcrypt.DefaultCost,
		now:          time.Now,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (a *Auth) Register(ctx context.Context, email, password string) (_ model.User, err error) {
	ctx, span := a.tracer.Start(ctx, "Auth.Register")
	defer func() { endSpan(span, err) }()

	email = normalizeEmail(email)
	if err := validateInput(registration{Email: email, Password: password}); err != nil {
		return model.User{}, err
	}

	a.logger.Debug("Auth service: registering user",
		"email", email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    a.now().UTC(),
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		a.logger.Info("Auth service: email already registered",
			"email", email)
		return model.User{}, apperr.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"email", email,
		"user_id", user.ID)

	return user, nil
}

// Login verifies the password and issues an access token. Unknown emails and
// wrong passwords yield the same error.
func (a *Auth) Login(ctx context.Context, email, password string) (_ Session, err error) {
	ctx, span := a.tracer.Start(ctx, "Auth.Login")
	defer func() { endSpan(span, err) }()

	email = normalizeEmail(email)
	if err := validateInput(credentials{Email: email, Password: password}); err != nil {
		return Session{}, err
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email",
			"email", email)
		return Session{}, apperr.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID)
		return Session{}, apperr.NewErrInvalidCredentials()
	}

	now := a.now().UTC()
	if err := a.userStore.TouchLastLogin(ctx, user.ID, now); err != nil {
		a.logger.Error("Auth service: failed to touch last login",
			"user_id", user.ID,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := a.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return Session{User: user, AccessToken: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
