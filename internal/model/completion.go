package model

import (
	"context"
	"time"
)

// DefaultMaxLevel is the number of levels on every island.
const DefaultMaxLevel = 5

// CompletionStore persists per-(user, island, level) completion records.
type CompletionStore interface {
	// UpsertCompletion marks the level completed, inserting or updating the single row for the triple.
	UpsertCompletion(ctx context.Context, userID int64, island Island, level int, at time.Time) error
	// CompletedLevels returns the level numbers with completed = true, ascending.
	CompletedLevels(ctx context.Context, userID int64, island Island) ([]int, error)
	// GetCompletion returns the stored row for the triple.
	GetCompletion(ctx context.Context, userID int64, island Island, level int) (LevelCompletion, error)
}

// LevelCompletion records that a user finished a level of an island.
type LevelCompletion struct {
	ID          int64
	UserID      int64
	Island      Island
	Level       int
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// LevelStatus describes one level of an island for one user.
type LevelStatus struct {
	UserID      int64
	Island      Island
	Level       int
	Completed   bool
	CompletedAt *time.Time
	Unlocked    bool
}

// IslandProgress is the derived view returned to clients.
type IslandProgress struct {
	UserID          int64
	Island          Island
	CompletedLevels []int
	NextUnlocked    int
}
