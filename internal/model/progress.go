package model

import (
	"context"
	"time"
)

// ProgressStore persists the coarse per-user progress pointer.
//
// The pointer is a compatibility field kept next to the completion set; it is
// never derived from, nor does it affect, LevelCompletion rows.
type ProgressStore interface {
	// Ensure returns the user's pointer, creating it at level 1 when missing.
	Ensure(ctx context.Context, userID int64, now time.Time) (Progress, bool, error)
	Set(ctx context.Context, userID int64, island Island, level int, now time.Time) (Progress, error)
	Reset(ctx context.Context, userID int64, now time.Time) (Progress, error)
	ListByUser(ctx context.Context, userID int64) ([]Progress, error)
}

// Progress is the coarse "current level" marker of a user.
type Progress struct {
	ID           int64
	UserID       int64
	Island       *Island
	CurrentLevel int
	StartedAt    time.Time
	UpdatedAt    time.Time
}
