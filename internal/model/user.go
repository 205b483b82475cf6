package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// User is the identity root every progress record hangs off.
type User struct {
	ID           int64
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
