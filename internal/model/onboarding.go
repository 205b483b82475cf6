package model

import (
	"context"
	"time"
)

// OnboardingStore persists onboarding profiles, one per user.
type OnboardingStore interface {
	Upsert(ctx context.Context, profile Onboarding) error
	GetByUserID(ctx context.Context, userID int64) (Onboarding, error)
}

// Onboarding is the profile collected by the onboarding flow.
type Onboarding struct {
	UserID      int64
	Name        *string
	Age         *int
	Emotions    *string
	GenderID    *int64
	IntensityID *int64
	GoalID      *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
